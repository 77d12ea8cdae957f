package dal

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"strconv"

	"github.com/Billy-Davies-2/snake-draft/internal/logger"
	"github.com/Billy-Davies-2/snake-draft/internal/models"
)

// rawPlayer is a row as stored, before the rank is validated
type rawPlayer struct {
	Name     string
	Position string
	Team     string
	ByeWeek  string
	Overall  string
}

// parseRank accepts only non-empty, all-digit ranks. Ranks past the int
// range saturate so they sort last.
func parseRank(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		logger.Debug("Saturating out-of-range rank", "overall", s)
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

// rankPlayers drops rows without a numeric rank and sorts the rest by rank.
// Rows with bad ranks are skipped silently.
func rankPlayers(rows []rawPlayer) []models.Player {
	players := make([]models.Player, 0, len(rows))
	for _, row := range rows {
		overall, ok := parseRank(row.Overall)
		if !ok {
			continue
		}
		players = append(players, models.Player{
			Name:     row.Name,
			Position: models.Position(row.Position),
			Team:     row.Team,
			ByeWeek:  row.ByeWeek,
			Overall:  overall,
		})
	}
	slices.SortStableFunc(players, func(a, b models.Player) int {
		return cmp.Compare(a.Overall, b.Overall)
	})
	return players
}
