package dal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDAL implements RankingsDAL using PostgreSQL
type PostgresDAL struct {
	sqlRankings
}

// NewPostgresDAL creates a PostgreSQL rankings source
func NewPostgresDAL(connString string) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// Rankings are read once per refresh, a small pool is plenty
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Retry for slow DNS in Kubernetes
	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()

		if lastErr == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if lastErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	dal := &PostgresDAL{
		sqlRankings: sqlRankings{
			db:          db,
			placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		},
	}

	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (p *PostgresDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS player_rankings (
		id SERIAL PRIMARY KEY,
		player_name TEXT NOT NULL,
		position TEXT NOT NULL,
		team TEXT NOT NULL DEFAULT '',
		bye_week TEXT NOT NULL DEFAULT '',
		overall TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := p.db.Exec(schema)
	return err
}
