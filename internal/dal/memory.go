package dal

import (
	"context"
	"slices"
	"sync"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
)

// MemoryDAL implements RankingsDAL over an in-process list
type MemoryDAL struct {
	mu      sync.RWMutex
	players []models.Player
}

// NewMemoryDAL creates an in-memory rankings source
func NewMemoryDAL(players []models.Player) *MemoryDAL {
	m := &MemoryDAL{}
	m.set(players)
	return m
}

func (m *MemoryDAL) set(players []models.Player) {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b models.Player) int {
		return a.Overall - b.Overall
	})
	m.players = sorted
}

func (m *MemoryDAL) LoadPlayers(ctx context.Context) ([]models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.players), nil
}

func (m *MemoryDAL) CountPlayers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players), nil
}

func (m *MemoryDAL) ImportPlayers(ctx context.Context, players []models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(append(slices.Clone(m.players), players...))
	return nil
}

func (m *MemoryDAL) Close() error {
	return nil
}
