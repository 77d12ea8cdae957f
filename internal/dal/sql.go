package dal

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
)

// sqlRankings holds the queries shared by the SQL backends. Overall is
// stored as text so rows with a bad rank are filtered the same way as CSV.
type sqlRankings struct {
	db *sql.DB
	// placeholder returns the bind marker for the n-th (1-based) argument
	placeholder func(n int) string
}

func (s *sqlRankings) LoadPlayers(ctx context.Context) ([]models.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_name, position, team, bye_week, overall
		FROM player_rankings
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	var raw []rawPlayer
	for rows.Next() {
		var r rawPlayer
		if err := rows.Scan(&r.Name, &r.Position, &r.Team, &r.ByeWeek, &r.Overall); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rankPlayers(raw), nil
}

func (s *sqlRankings) CountPlayers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM player_rankings").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *sqlRankings) ImportPlayers(ctx context.Context, players []models.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	marks := make([]string, 5)
	for i := range marks {
		marks[i] = s.placeholder(i + 1)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO player_rankings (player_name, position, team, bye_week, overall)
		VALUES (%s)
	`, strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.ExecContext(ctx, p.Name, string(p.Position), p.Team, p.ByeWeek, strconv.Itoa(p.Overall)); err != nil {
			return fmt.Errorf("failed to insert %s: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

func (s *sqlRankings) Close() error {
	return s.db.Close()
}

// SeedFromCSV imports the CSV at path into dst when dst has no players yet
func SeedFromCSV(ctx context.Context, dst Importer, path string) (int, error) {
	count, err := dst.CountPlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	if count > 0 || path == "" {
		return 0, nil
	}

	players, err := NewCSVDAL(path).LoadPlayers(ctx)
	if err != nil {
		return 0, err
	}
	if err := dst.ImportPlayers(ctx, players); err != nil {
		return 0, fmt.Errorf("failed to import players: %w", err)
	}
	return len(players), nil
}
