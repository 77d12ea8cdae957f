package draft

import (
	"math/rand/v2"
	"testing"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosterWith(positions ...models.Position) []models.Player {
	roster := make([]models.Player, len(positions))
	for i, pos := range positions {
		roster[i] = models.Player{Name: "Rostered", Position: pos, Overall: 1000 + i}
	}
	return roster
}

func poolOf(positions ...models.Position) *Pool {
	players := make([]models.Player, len(positions))
	for i, pos := range positions {
		players[i] = models.Player{Name: string(pos), Position: pos, Overall: i + 1}
	}
	return NewPool(players)
}

func TestAutoPickDrawIsRoundedAndClamped(t *testing.T) {
	pool := NewPool(makePlayers(10))

	tests := []struct {
		name  string
		value float64
		want  int
	}{
		{"center", 0, 0},
		{"negative clamps to top", -2.5, 0},
		{"rounds half up", 0.5, 2},
		{"rounds down", 0.4, 1},
		{"clamps to bottom", 50, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picker := NewAutoPicker(&fixedSource{values: []float64{tt.value}})
			assert.Equal(t, tt.want, picker.Pick(nil, pool))
		})
	}
}

func TestAutoPickRedrawsQBWhenCapActive(t *testing.T) {
	pool := poolOf(models.PositionQB, models.PositionRB, models.PositionWR)
	src := &fixedSource{values: []float64{0, 0.34}}
	picker := NewAutoPicker(src)

	idx := picker.Pick(rosterWith(models.PositionQB), pool)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, src.calls)
}

func TestAutoPickFallsBackToScan(t *testing.T) {
	pool := poolOf(models.PositionQB, models.PositionQB, models.PositionTE, models.PositionRB)
	src := &fixedSource{values: []float64{0}}
	picker := NewAutoPicker(src)

	idx := picker.Pick(rosterWith(models.PositionQB, models.PositionRB), pool)
	assert.Equal(t, 2, idx)
	assert.Equal(t, MaxAttempts, src.calls)
}

func TestAutoPickCapLiftsAtEighthPick(t *testing.T) {
	pool := poolOf(models.PositionQB, models.PositionRB)
	picker := NewAutoPicker(&fixedSource{values: []float64{0}})

	full := rosterWith(
		models.PositionQB, models.PositionRB, models.PositionRB, models.PositionWR,
		models.PositionWR, models.PositionTE, models.PositionWR, models.PositionRB,
	)
	require.Len(t, full, EarlyQBRosterLimit)
	assert.Equal(t, 0, picker.Pick(full, pool))
}

func TestAutoPickAllowsFirstQB(t *testing.T) {
	pool := poolOf(models.PositionQB, models.PositionRB)
	picker := NewAutoPicker(&fixedSource{values: []float64{0}})

	assert.Equal(t, 0, picker.Pick(rosterWith(models.PositionRB, models.PositionWR), pool))
	assert.Equal(t, 0, picker.Pick(nil, pool))
}

func TestAutoPickDegeneratePools(t *testing.T) {
	picker := NewAutoPicker(&fixedSource{values: []float64{0.7}})

	assert.Equal(t, 0, picker.Pick(rosterWith(models.PositionQB), NewPool(nil)))
	assert.Equal(t, 0, picker.Pick(rosterWith(models.PositionQB), poolOf(models.PositionQB, models.PositionQB)))
}

func TestAutoPickNeverTakesEarlySecondQB(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	picker := NewAutoPicker(rng)
	all := []models.Position{
		models.PositionQB, models.PositionRB, models.PositionWR,
		models.PositionTE, models.PositionK, models.PositionDST,
	}

	for trial := 0; trial < 10000; trial++ {
		poolSize := 1 + rng.IntN(40)
		positions := make([]models.Position, poolSize)
		for i := range positions {
			// heavy on QBs so the cap is exercised
			if rng.IntN(2) == 0 {
				positions[i] = models.PositionQB
			} else {
				positions[i] = all[rng.IntN(len(all))]
			}
		}
		pool := poolOf(positions...)

		rosterSize := 1 + rng.IntN(EarlyQBRosterLimit-1)
		rosterPositions := make([]models.Position, rosterSize)
		rosterPositions[0] = models.PositionQB
		for i := 1; i < rosterSize; i++ {
			rosterPositions[i] = all[rng.IntN(len(all))]
		}

		idx := picker.Pick(rosterWith(rosterPositions...), pool)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, pool.Size())

		picked, err := pool.At(idx)
		require.NoError(t, err)
		if picked.Position == models.PositionQB {
			for _, p := range pool.Players() {
				require.Equal(t, models.PositionQB, p.Position,
					"trial %d: QB taken at %d while a non-QB was available", trial, idx)
			}
		}
	}
}
