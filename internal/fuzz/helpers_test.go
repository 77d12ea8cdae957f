package fuzz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/Billy-Davies-2/snake-draft/internal/dal"
	"github.com/Billy-Davies-2/snake-draft/internal/draft"
	"github.com/Billy-Davies-2/snake-draft/internal/logger"
	"github.com/Billy-Davies-2/snake-draft/internal/models"
	"github.com/Billy-Davies-2/snake-draft/internal/pubsub"
	"github.com/Billy-Davies-2/snake-draft/internal/service"
	"github.com/Billy-Davies-2/snake-draft/internal/session"
)

func init() {
	logger.Discard()
}

var fuzzPlayers = func() []models.Player {
	positions := []models.Position{models.PositionQB, models.PositionRB, models.PositionWR, models.PositionTE, models.PositionK, models.PositionDST}
	players := make([]models.Player, 260)
	for i := range players {
		players[i] = models.Player{
			Name:     fmt.Sprintf("Player %03d", i+1),
			Position: positions[i%len(positions)],
			Team:     "FA",
			ByeWeek:  "8",
			Overall:  i + 1,
		}
	}
	return players
}()

func newService(t *testing.T) *service.DraftService {
	t.Helper()
	opts := service.DefaultOptions()
	opts.NewPicker = func() *draft.AutoPicker {
		return draft.NewAutoPicker(rand.New(rand.NewPCG(11, 12)))
	}
	svc := service.NewDraftService(dal.NewMemoryDAL(fuzzPlayers), session.NewManager(clockwork.NewFakeClock()), pubsub.New(), opts)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	return svc
}
