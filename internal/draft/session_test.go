package draft

import (
	"testing"

	"github.com/Billy-Davies-2/snake-draft/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStartedSession(t *testing.T, players []models.Player, slot, teams, rounds int) *Session {
	t.Helper()
	s := New(players, seededPicker(42))
	require.NoError(t, s.Reset(slot, teams, rounds))
	return s
}

func TestResetThenAdvanceStopsAtUserSeat(t *testing.T) {
	s := newStartedSession(t, makePlayers(300), 4, 12, 20)

	picks, err := s.AdvanceToUserTurn()
	require.NoError(t, err)

	assert.Equal(t, 3, s.Pointer())
	assert.Len(t, picks, 3)
	team, err := s.CurrentTeam()
	require.NoError(t, err)
	assert.Equal(t, UserTeamName, team)
	assert.True(t, s.IsUserTurn())

	rosters := s.Rosters()
	for seat := 0; seat < 3; seat++ {
		assert.Len(t, rosters[seat], 1, "seat %d", seat)
		assert.Equal(t, seat, picks[seat].Seat)
		assert.True(t, picks[seat].Auto)
	}
	for seat := 3; seat < 12; seat++ {
		assert.Empty(t, rosters[seat], "seat %d", seat)
	}
	assert.Equal(t, 297, s.PoolSize())
}

func TestAdvanceIsIdempotent(t *testing.T) {
	s := newStartedSession(t, makePlayers(300), 7, 12, 20)

	_, err := s.AdvanceToUserTurn()
	require.NoError(t, err)
	before := s.View(20)

	picks, err := s.AdvanceToUserTurn()
	require.NoError(t, err)
	assert.Empty(t, picks)
	assert.Equal(t, before, s.View(20))
}

func TestUserPickByIndex(t *testing.T) {
	players := makePlayers(25)
	s := newStartedSession(t, players, 1, 12, 2)
	require.True(t, s.IsUserTurn())

	rec, err := s.UserPickByIndex(0)
	require.NoError(t, err)

	assert.Equal(t, players[0], rec.Player)
	assert.False(t, rec.Auto)
	assert.Equal(t, 1, rec.Pick)
	assert.Equal(t, 24, s.PoolSize())
	assert.Len(t, s.UserRoster(), 1)
	assert.Equal(t, 1, s.Pointer())
}

func TestUserPickOutOfRangeLeavesStateAlone(t *testing.T) {
	s := newStartedSession(t, makePlayers(25), 1, 12, 2)

	_, err := s.UserPickByIndex(999)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Contains(t, err.Error(), "index out of range")

	_, err = s.UserPickByIndex(-1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	assert.Equal(t, 25, s.PoolSize())
	assert.Empty(t, s.UserRoster())
	assert.Equal(t, 0, s.Pointer())
}

func TestUserPickDoesNotChain(t *testing.T) {
	s := newStartedSession(t, makePlayers(60), 1, 4, 3)

	_, err := s.UserPickByIndex(0)
	require.NoError(t, err)

	team, err := s.CurrentTeam()
	require.NoError(t, err)
	assert.Equal(t, "Team2", team)

	_, err = s.UserPickByIndex(0)
	assert.ErrorIs(t, err, ErrNotUserTurn)
	assert.Equal(t, 1, s.Pointer())

	picks, err := s.AdvanceToUserTurn()
	require.NoError(t, err)
	// seats 1,2,3 then 3,2,1 before the user picks again at the turn
	assert.Len(t, picks, 6)
	assert.True(t, s.IsUserTurn())
	assert.Equal(t, 7, s.Pointer())
}

func TestResetRejectsInvalidSlot(t *testing.T) {
	s := newStartedSession(t, makePlayers(300), 4, 12, 20)
	_, err := s.AdvanceToUserTurn()
	require.NoError(t, err)
	before := s.View(20)

	for _, slot := range []int{0, 13, -2} {
		err := s.Reset(slot, 12, 20)
		assert.ErrorIs(t, err, ErrInvalidSlot, "slot %d", slot)
	}
	assert.Equal(t, before, s.View(20))

	fresh := New(makePlayers(10), nil)
	assert.ErrorIs(t, fresh.Reset(13, 12, 20), ErrInvalidSlot)
	assert.Equal(t, StatusIdle, fresh.Status())
}

func TestResetRejectsInvalidConfig(t *testing.T) {
	s := New(makePlayers(10), nil)
	assert.ErrorIs(t, s.Reset(1, 0, 5), ErrInvalidConfig)
	assert.ErrorIs(t, s.Reset(1, 4, -1), ErrInvalidConfig)
	assert.Equal(t, StatusIdle, s.Status())
}

func TestIdleSession(t *testing.T) {
	s := New(makePlayers(10), nil)

	picks, err := s.AdvanceToUserTurn()
	require.NoError(t, err)
	assert.Empty(t, picks)

	_, err = s.UserPickByIndex(0)
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = s.CurrentTeam()
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.Empty(t, s.UserRoster())
	assert.Empty(t, s.TopN(20))
}

func TestZeroRoundsIsComplete(t *testing.T) {
	s := newStartedSession(t, makePlayers(10), 2, 4, 0)
	assert.Equal(t, StatusComplete, s.Status())

	_, err := s.CurrentTeam()
	assert.ErrorIs(t, err, ErrDraftComplete)
	_, err = s.UserPickByIndex(0)
	assert.ErrorIs(t, err, ErrDraftComplete)

	view := s.View(20)
	assert.True(t, view.Complete)
	assert.Equal(t, "", view.OnTheClock)
}

func TestFullDraftConservesPlayers(t *testing.T) {
	players := makePlayers(260)
	s := newStartedSession(t, players, 5, 12, 20)

	for s.Status() == StatusInProgress {
		_, err := s.AdvanceToUserTurn()
		require.NoError(t, err)
		if s.Status() == StatusComplete {
			break
		}
		_, err = s.UserPickByIndex(s.Pointer() % 20)
		require.NoError(t, err)
	}

	assert.Equal(t, 240, s.Pointer())
	assert.Equal(t, 20, s.PoolSize())

	seen := map[string]int{}
	for _, p := range s.Pool() {
		seen[p.Name]++
	}
	for seat, roster := range s.Rosters() {
		assert.Len(t, roster, 20, "seat %d", seat)
		for _, p := range roster {
			seen[p.Name]++
		}
	}
	require.Len(t, seen, len(players))
	for name, count := range seen {
		assert.Equal(t, 1, count, "%s appears %d times", name, count)
	}

	// no automated team holds two QBs inside its first eight picks
	for seat, roster := range s.Rosters() {
		if seat == 4 {
			continue
		}
		assert.LessOrEqual(t, countPosition(roster[:EarlyQBRosterLimit], models.PositionQB), EarlyQBMax, "seat %d", seat)
	}

	_, err := s.CurrentTeam()
	assert.ErrorIs(t, err, ErrDraftComplete)
	picks, err := s.AdvanceToUserTurn()
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestAdvanceWithExhaustedPool(t *testing.T) {
	s := newStartedSession(t, makePlayers(2), 4, 4, 1)

	picks, err := s.AdvanceToUserTurn()
	require.ErrorIs(t, err, ErrPoolExhausted)
	assert.Len(t, picks, 2)
	assert.Equal(t, 2, s.Pointer())
	assert.Equal(t, 0, s.PoolSize())
}

func TestBoardRows(t *testing.T) {
	s := newStartedSession(t, makePlayers(30), 2, 3, 2)
	assert.Empty(t, s.BoardRows())

	_, err := s.AdvanceToUserTurn()
	require.NoError(t, err)
	rec, err := s.UserPickByIndex(0)
	require.NoError(t, err)

	rows := s.BoardRows()
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 3)
	assert.NotEmpty(t, rows[0][0])
	assert.Equal(t, rec.Player.Name, rows[0][1])
	assert.Equal(t, "", rows[0][2])

	_, err = s.AdvanceToUserTurn()
	require.NoError(t, err)
	rows = s.BoardRows()
	require.Len(t, rows, 2)
	assert.NotEmpty(t, rows[0][2])
	assert.NotEmpty(t, rows[1][2])
	assert.Equal(t, "", rows[1][0])
	assert.Equal(t, "", rows[1][1])
}

func TestViewShape(t *testing.T) {
	s := newStartedSession(t, makePlayers(40), 3, 4, 5)
	_, err := s.AdvanceToUserTurn()
	require.NoError(t, err)

	view := s.View(20)
	assert.Equal(t, 1, view.Round)
	assert.Equal(t, []string{"Team1", "Team2", "You", "Team4"}, view.Teams)
	assert.Len(t, view.Top20, 20)
	assert.Equal(t, UserTeamName, view.OnTheClock)
	assert.Equal(t, 2, view.Pick)
	assert.Equal(t, 20, view.TotalPicks)
	for _, top := range view.Top20 {
		assert.Equal(t, models.ColorFor(top.Position), top.ColorTag)
	}

	assert.Len(t, s.View(100).Top20, 38)
}

func TestCurrentRound(t *testing.T) {
	s := newStartedSession(t, makePlayers(100), 1, 4, 5)
	assert.Equal(t, 1, s.CurrentRound())

	_, err := s.UserPickByIndex(0)
	require.NoError(t, err)
	_, err = s.AdvanceToUserTurn()
	require.NoError(t, err)
	// user picks at 0 then 7
	assert.Equal(t, 7, s.Pointer())
	assert.Equal(t, 2, s.CurrentRound())
}
