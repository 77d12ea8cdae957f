package service

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Billy-Davies-2/snake-draft/internal/dal"
	"github.com/Billy-Davies-2/snake-draft/internal/draft"
	"github.com/Billy-Davies-2/snake-draft/internal/logger"
	"github.com/Billy-Davies-2/snake-draft/internal/models"
	"github.com/Billy-Davies-2/snake-draft/internal/pubsub"
	"github.com/Billy-Davies-2/snake-draft/internal/session"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// Options fixes the shape of every draft the service runs
type Options struct {
	Teams       int
	Rounds      int
	DefaultSlot int
	TopN        int

	// NewPicker builds each draft's auto-picker. Nil means time-seeded.
	NewPicker func() *draft.AutoPicker
}

// DefaultOptions is a 12 team, 20 round draft with the user in seat 4
func DefaultOptions() Options {
	return Options{Teams: 12, Rounds: 20, DefaultSlot: 4, TopN: 20}
}

// DraftService runs snake drafts keyed by session
type DraftService struct {
	opts     Options
	source   dal.RankingsDAL
	rankings atomic.Pointer[[]models.Player]
	sessions *session.Manager
	events   pubsub.Publisher
}

// NewDraftService wires a service. Call Refresh before serving traffic.
func NewDraftService(source dal.RankingsDAL, sessions *session.Manager, events pubsub.Publisher, opts Options) *DraftService {
	if opts.NewPicker == nil {
		opts.NewPicker = draft.NewRandomAutoPicker
	}
	return &DraftService{
		opts:     opts,
		source:   source,
		sessions: sessions,
		events:   events,
	}
}

// Options returns the draft shape
func (s *DraftService) Options() Options {
	return s.opts
}

// Refresh reloads the ranked list. Drafts started afterwards use the new
// list; running drafts keep theirs. An empty result keeps the current list.
func (s *DraftService) Refresh(ctx context.Context) error {
	players, err := s.source.LoadPlayers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rankings: %w", err)
	}
	if len(players) == 0 {
		if s.rankings.Load() != nil {
			logger.Warn("Rankings refresh returned no players, keeping current list")
			return nil
		}
		return ErrNoRankings
	}
	s.rankings.Store(&players)
	logger.Info("Rankings loaded", "players", len(players))
	return nil
}

// Ready reports whether rankings are loaded
func (s *DraftService) Ready() bool {
	return s.rankings.Load() != nil
}

// PlayerCount returns the size of the loaded ranked list
func (s *DraftService) PlayerCount() int {
	if p := s.rankings.Load(); p != nil {
		return len(*p)
	}
	return 0
}

// SessionCount returns the number of live sessions
func (s *DraftService) SessionCount() int {
	return s.sessions.Len()
}

// Start begins a fresh draft for key with the user in slot and runs the
// automated picks ahead of the user's first turn
func (s *DraftService) Start(ctx context.Context, key string, slot int) (models.DraftView, error) {
	if err := s.validateSlot(slot); err != nil {
		return models.DraftView{}, err
	}
	var view models.DraftView
	err := s.sessions.Do(key, s.newEntry, func(e *session.Entry) error {
		if err := s.reset(key, e, slot); err != nil {
			return err
		}
		view = e.Session.View(s.opts.TopN)
		return nil
	})
	return view, err
}

// Restart is Start with the slot defaulting to the one last used for key
func (s *DraftService) Restart(ctx context.Context, key string, slot *int) (models.DraftView, error) {
	if slot != nil {
		if err := s.validateSlot(*slot); err != nil {
			return models.DraftView{}, err
		}
	}
	var view models.DraftView
	err := s.sessions.Do(key, s.newEntry, func(e *session.Entry) error {
		chosen := e.LastSlot
		if slot != nil {
			chosen = *slot
		}
		if err := s.reset(key, e, chosen); err != nil {
			return err
		}
		view = e.Session.View(s.opts.TopN)
		return nil
	})
	return view, err
}

// Pick drafts the pool player at index for the user, then runs the
// automated picks up to the user's next turn. A key with no draft gets the
// default game first.
func (s *DraftService) Pick(ctx context.Context, key string, index int) (models.DraftView, error) {
	var view models.DraftView
	err := s.sessions.Do(key, s.newEntry, func(e *session.Entry) error {
		if err := s.ensureStarted(key, e); err != nil {
			return err
		}
		rec, err := e.Session.UserPickByIndex(index)
		if err != nil {
			return err
		}
		s.publishPicks(key, []models.PickRecord{rec})

		picks, err := e.Session.AdvanceToUserTurn()
		s.publishPicks(key, picks)
		if err != nil {
			return err
		}
		s.publishIfComplete(key, e.Session)
		view = e.Session.View(s.opts.TopN)
		return nil
	})
	return view, err
}

// State returns the draft for key, starting the default game when key has
// none
func (s *DraftService) State(ctx context.Context, key string) (models.DraftView, error) {
	var view models.DraftView
	err := s.sessions.Do(key, s.newEntry, func(e *session.Entry) error {
		if err := s.ensureStarted(key, e); err != nil {
			return err
		}
		view = e.Session.View(s.opts.TopN)
		return nil
	})
	return view, err
}

// Search matches query against the names of key's undrafted players. The
// returned indices are valid for Pick until the pool next changes. An empty
// query returns the best available players. A key with no draft gets the
// default game first.
func (s *DraftService) Search(ctx context.Context, key, query string, limit int) ([]models.SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)

	var results []models.SearchResult
	err := s.sessions.Do(key, s.newEntry, func(e *session.Entry) error {
		if err := s.ensureStarted(key, e); err != nil {
			return err
		}
		results = searchPool(e.Session.Pool(), query, limit)
		return nil
	})
	return results, err
}

func searchPool(pool []models.Player, query string, limit int) []models.SearchResult {
	results := []models.SearchResult{}
	if query == "" {
		for i := 0; i < len(pool) && i < limit; i++ {
			results = append(results, models.SearchResult{Index: i, Player: pool[i]})
		}
		return results
	}

	names := make([]string, len(pool))
	for i, p := range pool {
		names[i] = p.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	for _, r := range ranks {
		if len(results) == limit {
			break
		}
		results = append(results, models.SearchResult{Index: r.OriginalIndex, Player: pool[r.OriginalIndex]})
	}
	return results
}

func (s *DraftService) validateSlot(slot int) error {
	if slot < 1 || slot > s.opts.Teams {
		return &RequestError{
			Message: fmt.Sprintf("slot must be between 1 and %d", s.opts.Teams),
			Err:     draft.ErrInvalidSlot,
		}
	}
	return nil
}

func (s *DraftService) players() []models.Player {
	if p := s.rankings.Load(); p != nil {
		return *p
	}
	return nil
}

func (s *DraftService) newEntry() *session.Entry {
	return &session.Entry{
		Session:  draft.New(s.players(), s.opts.NewPicker()),
		LastSlot: s.opts.DefaultSlot,
	}
}

// ensureStarted starts the default game for an entry that has never drafted
func (s *DraftService) ensureStarted(key string, e *session.Entry) error {
	if e.Session.Status() != draft.StatusIdle {
		return nil
	}
	return s.reset(key, e, e.LastSlot)
}

// reset replaces e's draft with a fresh one on the latest rankings
func (s *DraftService) reset(key string, e *session.Entry, slot int) error {
	players := s.players()
	if players == nil {
		return ErrNoRankings
	}

	sess := draft.New(players, s.opts.NewPicker())
	if err := sess.Reset(slot, s.opts.Teams, s.opts.Rounds); err != nil {
		return err
	}
	e.Session = sess
	e.LastSlot = slot

	logger.Info("Draft started", "session", key, "slot", slot, "teams", s.opts.Teams, "rounds", s.opts.Rounds)
	s.publish(key, pubsub.EventDraftStart, map[string]any{
		"slot":   slot,
		"teams":  s.opts.Teams,
		"rounds": s.opts.Rounds,
	})

	picks, err := sess.AdvanceToUserTurn()
	s.publishPicks(key, picks)
	if err != nil {
		return err
	}
	s.publishIfComplete(key, sess)
	return nil
}

func (s *DraftService) publishPicks(key string, picks []models.PickRecord) {
	for _, p := range picks {
		s.publish(key, pubsub.EventDraftPick, map[string]any{
			"pick":     p.Pick,
			"round":    p.Round,
			"team":     p.Team,
			"player":   p.Player.Name,
			"position": string(p.Player.Position),
			"auto":     p.Auto,
		})
	}
}

func (s *DraftService) publishIfComplete(key string, sess *draft.Session) {
	if sess.Status() != draft.StatusComplete {
		return
	}
	logger.Info("Draft complete", "session", key, "picks", sess.Pointer())
	s.publish(key, pubsub.EventDraftComplete, map[string]any{"picks": sess.Pointer()})
}

func (s *DraftService) publish(key, eventType string, payload map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Publish(pubsub.Event{Type: eventType, Session: key, Payload: payload})
}
