package clickhouse

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
)

// Client reads expert consensus rankings from ClickHouse
type Client struct {
	conn  driver.Conn
	table string
}

// Options configures the ClickHouse connection
type Options struct {
	Addr     string
	Database string
	Username string
	Password string
	Table    string
}

// NewClient creates a new ClickHouse client
func NewClient(opts Options) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	table := opts.Table
	if table == "" {
		table = "player_rankings"
	}
	return &Client{conn: conn, table: table}, nil
}

// LoadPlayers returns the latest snapshot of the rankings table. The rank
// column is a String; rows that do not hold a plain integer are skipped.
func (c *Client) LoadPlayers(ctx context.Context) ([]models.Player, error) {
	query := fmt.Sprintf(`
		SELECT
			player_name,
			position,
			team,
			bye_week,
			overall
		FROM %s
		WHERE snapshot_date = (SELECT max(snapshot_date) FROM %s)
	`, c.table, c.table)

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var name, pos, team, bye, overall string
		if err := rows.Scan(&name, &pos, &team, &bye, &overall); err != nil {
			return nil, err
		}
		rank, ok := parseRank(overall)
		if !ok {
			continue
		}
		players = append(players, models.Player{
			Name:     name,
			Position: models.Position(pos),
			Team:     team,
			ByeWeek:  bye,
			Overall:  rank,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(players, func(a, b models.Player) int {
		return a.Overall - b.Overall
	})
	return players, nil
}

func parseRank(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
