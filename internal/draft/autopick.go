package draft

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
)

const (
	// MaxAttempts is how many gaussian draws are tried before the linear scan
	MaxAttempts = 30
	// Spread is the standard deviation of the index distribution
	Spread = 3.0
	// EarlyQBRosterLimit is the roster size at which the QB cap lifts
	EarlyQBRosterLimit = 8
	// EarlyQBMax is how many QBs a team may hold before the cap lifts
	EarlyQBMax = 1
)

// NormalSource draws from the standard normal distribution
type NormalSource interface {
	NormFloat64() float64
}

// AutoPicker chooses picks for automated teams. Most of the probability mass
// sits near the top of the pool, and teams avoid a second early QB.
type AutoPicker struct {
	rng NormalSource
}

// NewAutoPicker returns a picker drawing from rng
func NewAutoPicker(rng NormalSource) *AutoPicker {
	return &AutoPicker{rng: rng}
}

// NewRandomAutoPicker returns a picker with its own time-seeded source
func NewRandomAutoPicker() *AutoPicker {
	seed := uint64(time.Now().UnixNano())
	return NewAutoPicker(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Pick returns an index into pool for a team holding roster. It never
// mutates the pool.
func (a *AutoPicker) Pick(roster []models.Player, pool *Pool) int {
	size := pool.Size()
	if size == 0 {
		return 0
	}

	capActive := len(roster) < EarlyQBRosterLimit && countPosition(roster, models.PositionQB) >= EarlyQBMax

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		idx := a.draw(size)
		if capActive && pool.players[idx].Position == models.PositionQB {
			continue
		}
		return idx
	}

	for i, p := range pool.players {
		if capActive && p.Position == models.PositionQB {
			continue
		}
		return i
	}
	return 0
}

// draw returns round(N(0, Spread)) clamped into [0, size-1]
func (a *AutoPicker) draw(size int) int {
	idx := int(math.Round(a.rng.NormFloat64() * Spread))
	return max(0, min(size-1, idx))
}

func countPosition(roster []models.Player, pos models.Position) int {
	n := 0
	for _, p := range roster {
		if p.Position == pos {
			n++
		}
	}
	return n
}
