package draft

import (
	"fmt"
	"math/rand/v2"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
)

var cyclePositions = []models.Position{
	models.PositionQB, models.PositionRB, models.PositionWR, models.PositionRB,
	models.PositionWR, models.PositionTE, models.PositionK, models.PositionDST,
}

func makePlayers(n int) []models.Player {
	players := make([]models.Player, n)
	for i := range players {
		players[i] = models.Player{
			Name:     fmt.Sprintf("Player %03d", i+1),
			Position: cyclePositions[i%len(cyclePositions)],
			Team:     "FA",
			ByeWeek:  fmt.Sprint(5 + i%10),
			Overall:  i + 1,
		}
	}
	return players
}

// fixedSource replays values, repeating the last one when exhausted
type fixedSource struct {
	values []float64
	calls  int
}

func (f *fixedSource) NormFloat64() float64 {
	i := min(f.calls, len(f.values)-1)
	f.calls++
	return f.values[i]
}

func seededPicker(seed uint64) *AutoPicker {
	return NewAutoPicker(rand.New(rand.NewPCG(seed, seed+1)))
}
