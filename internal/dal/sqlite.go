package dal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDAL implements RankingsDAL using SQLite
type SQLiteDAL struct {
	sqlRankings
}

// NewSQLiteDAL opens (and creates if needed) a SQLite rankings database
func NewSQLiteDAL(dbPath string) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	dal := &SQLiteDAL{
		sqlRankings: sqlRankings{
			db:          db,
			placeholder: func(int) string { return "?" },
		},
	}

	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS player_rankings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_name TEXT NOT NULL,
		position TEXT NOT NULL,
		team TEXT NOT NULL DEFAULT '',
		bye_week TEXT NOT NULL DEFAULT '',
		overall TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}
