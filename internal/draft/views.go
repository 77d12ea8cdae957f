package draft

import (
	"slices"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
)

// CurrentRound returns the 1-based round of the pick pointer
func (s *Session) CurrentRound() int {
	if s.teams == 0 {
		return 1
	}
	return s.ptr/s.teams + 1
}

// CurrentTeam returns the name of the team on the clock
func (s *Session) CurrentTeam() (string, error) {
	if !s.started {
		return "", ErrNotStarted
	}
	seat, err := s.order.TeamAt(s.ptr)
	if err != nil {
		return "", ErrDraftComplete
	}
	return s.teamNames[seat], nil
}

// IsUserTurn reports whether the user is on the clock
func (s *Session) IsUserTurn() bool {
	seat, err := s.order.TeamAt(s.ptr)
	return err == nil && s.started && seat == s.userSeat()
}

// BoardRows returns one row per round, each holding the name of every team's
// pick in team order or "" where the team has not picked yet
func (s *Session) BoardRows() [][]string {
	depth := 0
	for _, roster := range s.rosters {
		depth = max(depth, len(roster))
	}

	rows := make([][]string, depth)
	for r := range rows {
		row := make([]string, len(s.rosters))
		for t, roster := range s.rosters {
			if r < len(roster) {
				row[t] = roster[r].Name
			}
		}
		rows[r] = row
	}
	return rows
}

// TopN returns the best n available players in display form
func (s *Session) TopN(n int) []models.TopPlayer {
	if s.pool == nil {
		return []models.TopPlayer{}
	}
	top := s.pool.PeekTop(n)
	out := make([]models.TopPlayer, len(top))
	for i, p := range top {
		out[i] = models.TopPlayer{
			Name:     p.Name,
			Position: p.Position,
			ByeWeek:  p.ByeWeek,
			ColorTag: models.ColorFor(p.Position),
		}
	}
	return out
}

// UserRoster returns the user's picks in draft order
func (s *Session) UserRoster() []models.Player {
	if !s.started {
		return []models.Player{}
	}
	return slices.Clone(s.rosters[s.userSeat()])
}

// Rosters returns a copy of every team's roster indexed by seat
func (s *Session) Rosters() [][]models.Player {
	out := make([][]models.Player, len(s.rosters))
	for i, r := range s.rosters {
		out[i] = slices.Clone(r)
	}
	return out
}

// Teams returns team names in seat order
func (s *Session) Teams() []string {
	return slices.Clone(s.teamNames)
}

// Slot returns the user's 1-based seat
func (s *Session) Slot() int { return s.slot }

// Pointer returns the number of picks made
func (s *Session) Pointer() int { return s.ptr }

// TotalPicks returns teams*rounds
func (s *Session) TotalPicks() int { return s.order.Len() }

// PoolSize returns the number of undrafted players
func (s *Session) PoolSize() int {
	if s.pool == nil {
		return 0
	}
	return s.pool.Size()
}

// Pool returns a copy of the undrafted players in rank order
func (s *Session) Pool() []models.Player {
	if s.pool == nil {
		return []models.Player{}
	}
	return s.pool.Players()
}

// View builds the client state with the best topN players
func (s *Session) View(topN int) models.DraftView {
	onTheClock, err := s.CurrentTeam()
	if err != nil {
		onTheClock = ""
	}
	return models.DraftView{
		Round:      s.CurrentRound(),
		Teams:      s.Teams(),
		Board:      s.BoardRows(),
		Top20:      s.TopN(topN),
		YourRoster: s.UserRoster(),
		OnTheClock: onTheClock,
		Slot:       s.slot,
		Pick:       s.ptr,
		TotalPicks: s.TotalPicks(),
		Complete:   s.Status() == StatusComplete,
	}
}
