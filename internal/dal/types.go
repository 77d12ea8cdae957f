package dal

import (
	"context"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
)

// RankingsDAL loads the ranked player list a draft is seeded from.
// Implementations return players sorted ascending by overall rank with
// unranked rows already dropped.
type RankingsDAL interface {
	LoadPlayers(ctx context.Context) ([]models.Player, error)
	Close() error
}

// Importer is implemented by backends that can be seeded with players
type Importer interface {
	CountPlayers(ctx context.Context) (int, error)
	ImportPlayers(ctx context.Context, players []models.Player) error
}
