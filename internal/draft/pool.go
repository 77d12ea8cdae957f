package draft

import (
	"fmt"
	"slices"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
)

// Pool holds the players not yet drafted, best rank first
type Pool struct {
	players []models.Player
}

// NewPool copies the ranked list into a fresh pool sorted by overall rank
func NewPool(players []models.Player) *Pool {
	p := &Pool{players: slices.Clone(players)}
	slices.SortStableFunc(p.players, func(a, b models.Player) int {
		return a.Overall - b.Overall
	})
	return p
}

// Size returns the number of players left
func (p *Pool) Size() int {
	return len(p.players)
}

// At returns the player at index i without removing it
func (p *Pool) At(i int) (models.Player, error) {
	if i < 0 || i >= len(p.players) {
		return models.Player{}, fmt.Errorf("%w: %d (pool size %d)", ErrIndexOutOfRange, i, len(p.players))
	}
	return p.players[i], nil
}

// PeekTop returns up to n players from the top of the pool
func (p *Pool) PeekTop(n int) []models.Player {
	if n <= 0 {
		return []models.Player{}
	}
	n = min(n, len(p.players))
	return slices.Clone(p.players[:n])
}

// RemoveAt removes the player at index i. Later players keep their order.
func (p *Pool) RemoveAt(i int) (models.Player, error) {
	player, err := p.At(i)
	if err != nil {
		return models.Player{}, err
	}
	p.players = slices.Delete(p.players, i, i+1)
	return player, nil
}

// Players returns a copy of the remaining players
func (p *Pool) Players() []models.Player {
	return slices.Clone(p.players)
}
