package dal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
)

// CSV column names
const (
	ColumnName     = "player_name"
	ColumnPosition = "position"
	ColumnTeam     = "team"
	ColumnByeWeek  = "bye_week"
	ColumnOverall  = "overall"
)

var requiredColumns = []string{ColumnName, ColumnPosition, ColumnTeam, ColumnByeWeek, ColumnOverall}

// ParseCSV reads a rankings export with a header row
func ParseCSV(r io.Reader) ([]models.Player, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("rankings csv is empty")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("rankings csv missing column %q", name)
		}
	}

	field := func(record []string, name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []rawPlayer
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		rows = append(rows, rawPlayer{
			Name:     field(record, ColumnName),
			Position: field(record, ColumnPosition),
			Team:     field(record, ColumnTeam),
			ByeWeek:  field(record, ColumnByeWeek),
			Overall:  field(record, ColumnOverall),
		})
	}

	return rankPlayers(rows), nil
}

// CSVDAL loads rankings from a CSV file on every call
type CSVDAL struct {
	path string
}

// NewCSVDAL creates a CSV-backed rankings source
func NewCSVDAL(path string) *CSVDAL {
	return &CSVDAL{path: path}
}

func (c *CSVDAL) LoadPlayers(ctx context.Context) ([]models.Player, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rankings csv: %w", err)
	}
	defer f.Close()
	return ParseCSV(f)
}

func (c *CSVDAL) Close() error {
	return nil
}
