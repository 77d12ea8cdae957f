package draft

import (
	"fmt"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
)

// Status is the lifecycle state of a session
type Status string

const (
	StatusIdle       Status = "idle"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

// UserTeamName is the display name of the user's seat
const UserTeamName = "You"

// Session is one snake draft: the pool, the pick order, team rosters and the
// pick pointer. A session is not safe for concurrent use; callers serialize.
type Session struct {
	source []models.Player
	picker *AutoPicker

	started bool
	slot    int
	teams   int
	rounds  int

	order     PickOrder
	pool      *Pool
	teamNames []string
	rosters   [][]models.Player
	ptr       int
}

// New returns an idle session drafting from players. The source list is
// only ever read.
func New(players []models.Player, picker *AutoPicker) *Session {
	if picker == nil {
		picker = NewRandomAutoPicker()
	}
	return &Session{source: players, picker: picker}
}

// Reset starts a fresh draft with the user in seat slot (1-based). Nothing
// changes when validation fails.
func (s *Session) Reset(slot, teams, rounds int) error {
	if teams < 1 {
		return fmt.Errorf("%w: teams must be at least 1, got %d", ErrInvalidConfig, teams)
	}
	if rounds < 0 {
		return fmt.Errorf("%w: rounds must not be negative, got %d", ErrInvalidConfig, rounds)
	}
	if slot < 1 || slot > teams {
		return fmt.Errorf("%w: slot must be between 1 and %d, got %d", ErrInvalidSlot, teams, slot)
	}

	names := make([]string, teams)
	for i := range names {
		names[i] = fmt.Sprintf("Team%d", i+1)
	}
	names[slot-1] = UserTeamName

	rosters := make([][]models.Player, teams)
	for i := range rosters {
		rosters[i] = []models.Player{}
	}

	s.started = true
	s.slot = slot
	s.teams = teams
	s.rounds = rounds
	s.order = BuildPickOrder(teams, rounds)
	s.pool = NewPool(s.source)
	s.teamNames = names
	s.rosters = rosters
	s.ptr = 0
	return nil
}

// Status reports where the session is in its lifecycle
func (s *Session) Status() Status {
	switch {
	case !s.started:
		return StatusIdle
	case s.ptr >= s.order.Len():
		return StatusComplete
	default:
		return StatusInProgress
	}
}

func (s *Session) userSeat() int {
	return s.slot - 1
}

// AdvanceToUserTurn makes automated picks until the user is on the clock or
// the draft is complete. It is a no-op in either of those states.
func (s *Session) AdvanceToUserTurn() ([]models.PickRecord, error) {
	if !s.started {
		return nil, nil
	}

	var picks []models.PickRecord
	for s.ptr < s.order.Len() {
		seat, err := s.order.TeamAt(s.ptr)
		if err != nil {
			return picks, err
		}
		if seat == s.userSeat() {
			break
		}
		if s.pool.Size() == 0 {
			return picks, fmt.Errorf("%w at pick %d", ErrPoolExhausted, s.ptr+1)
		}

		idx := s.picker.Pick(s.rosters[seat], s.pool)
		player, err := s.pool.RemoveAt(idx)
		if err != nil {
			return picks, err
		}
		picks = append(picks, s.record(seat, player, true))
	}
	return picks, nil
}

// UserPickByIndex drafts the pool player at index for the user. It does not
// resolve the automated picks that follow; call AdvanceToUserTurn for that.
func (s *Session) UserPickByIndex(index int) (models.PickRecord, error) {
	if !s.started {
		return models.PickRecord{}, ErrNotStarted
	}
	seat, err := s.order.TeamAt(s.ptr)
	if err != nil {
		return models.PickRecord{}, ErrDraftComplete
	}
	if seat != s.userSeat() {
		return models.PickRecord{}, fmt.Errorf("%w: %s is on the clock", ErrNotUserTurn, s.teamNames[seat])
	}

	player, err := s.pool.RemoveAt(index)
	if err != nil {
		return models.PickRecord{}, err
	}
	return s.record(seat, player, false), nil
}

// record appends player to seat's roster and moves the pointer
func (s *Session) record(seat int, player models.Player, auto bool) models.PickRecord {
	rec := models.PickRecord{
		Pick:   s.ptr + 1,
		Round:  s.CurrentRound(),
		Seat:   seat,
		Team:   s.teamNames[seat],
		Player: player,
		Auto:   auto,
	}
	s.rosters[seat] = append(s.rosters[seat], player)
	s.ptr++
	return rec
}
