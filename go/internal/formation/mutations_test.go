package formation

import (
	"testing"

	"github.com/mcdev12/lineup/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In newFullStore(t, "4-3-3", n) p1 is the goalkeeper and p10 the striker.

func TestMovePlayerToPosition_SwapsViaOriginSlot(t *testing.T) {
	s := newFullStore(t, "4-3-3", 11)

	changed, err := s.MovePlayerToPosition("p10", "gk", true, "st", NoBenchIndex)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, "p10", memberAt(t, s, "gk"))
	assert.Equal(t, "p1", memberAt(t, s, "st"))

	gk := starterAt(t, s, "gk")
	assert.Equal(t, "gk", gk.ID)
	assert.Equal(t, "GK", gk.Label)
	st := starterAt(t, s, "st")
	assert.Equal(t, "ST", st.Label)
	assert.Len(t, s.Starters(), 11)
	require.NoError(t, s.Validate())
}

func TestMovePlayerToPosition_SelfDropIsNoop(t *testing.T) {
	s := newFullStore(t, "4-3-3", 11)
	before := s.Schema()

	changed, err := s.MovePlayerToPosition("p10", "st", true, "st", NoBenchIndex)
	require.NoError(t, err)
	assert.False(t, changed)

	// a stale origin still resolves to the member's real slot
	changed, err = s.MovePlayerToPosition("p10", "st", false, "", 3)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, before, s.Schema())
}

func TestMovePlayerToPosition_FromBenchDisplacesToBenchEnd(t *testing.T) {
	s := newFullStore(t, "4-3-3", 14)

	changed, err := s.MovePlayerToPosition("p12", "st", false, "", 0)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, "p12", memberAt(t, s, "st"))
	assert.Equal(t, []string{"p13", "p14", "p10"}, benchMembers(s))
	require.NoError(t, s.Validate())
}

func TestMovePlayerToPosition_OpenSlot(t *testing.T) {
	s := newFullStore(t, "4-3-3", 12)
	_, err := s.MoveStarterToSubsGeneral("p10", "st")
	require.NoError(t, err)
	assert.Equal(t, -1, s.starterIndex("st"))

	changed, err := s.MovePlayerToPosition("p12", "st", false, "", 0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "p12", memberAt(t, s, "st"))
	assert.Equal(t, []string{"p10"}, benchMembers(s))
}

func TestMovePlayerToPosition_StarterToOpenSlotLeavesOriginOpen(t *testing.T) {
	s := newFullStore(t, "4-3-3", 11)
	_, err := s.MoveStarterToSubsGeneral("p10", "st")
	require.NoError(t, err)

	changed, err := s.MovePlayerToPosition("p9", "st", true, "lw", NoBenchIndex)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "p9", memberAt(t, s, "st"))
	assert.Equal(t, -1, s.starterIndex("lw"))
}

func TestMovePlayerToPosition_Errors(t *testing.T) {
	s := newFullStore(t, "4-3-3", 11)

	_, err := s.MovePlayerToPosition("p10", "lst", true, "st", NoBenchIndex)
	assert.ErrorIs(t, err, ErrUnknownPosition)

	_, err = s.MovePlayerToPosition("ghost", "st", false, "", 0)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestMovePlayerToPosition_KeepsStartersInSlotOrder(t *testing.T) {
	s := newFullStore(t, "4-3-3", 12)
	_, err := s.MovePlayerToPosition("p12", "gk", false, "", 0)
	require.NoError(t, err)

	slots := s.Slots()
	for i, st := range s.Starters() {
		assert.Equal(t, slots[i].ID, st.PositionID)
	}
}

func TestMovePlayerToSubSlot_BenchToBenchSwaps(t *testing.T) {
	s := newFullStore(t, "4-3-3", 15)

	changed, err := s.MovePlayerToSubSlot("p12", 2, false, "", 0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"p14", "p13", "p12", "p15"}, benchMembers(s))
}

func TestMovePlayerToSubSlot_BenchPastEndMovesToEnd(t *testing.T) {
	s := newFullStore(t, "4-3-3", 15)

	changed, err := s.MovePlayerToSubSlot("p12", 10, false, "", 0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"p13", "p14", "p15", "p12"}, benchMembers(s))

	changed, err = s.MovePlayerToSubSlot("p12", 10, false, "", 3)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestMovePlayerToSubSlot_SelfDropIsNoop(t *testing.T) {
	s := newFullStore(t, "4-3-3", 15)
	changed, err := s.MovePlayerToSubSlot("p13", 1, false, "", 1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []string{"p12", "p13", "p14", "p15"}, benchMembers(s))
}

func TestMovePlayerToSubSlot_StarterOntoOccupiedIndex(t *testing.T) {
	s := newFullStore(t, "4-3-3", 14)

	changed, err := s.MovePlayerToSubSlot("p10", 1, true, "st", NoBenchIndex)
	require.NoError(t, err)
	assert.True(t, changed)

	// the displaced bench entry takes the open slot the starter left
	assert.Equal(t, "p13", memberAt(t, s, "st"))
	assert.Equal(t, []string{"p12", "p10", "p14"}, benchMembers(s))
	assert.Len(t, s.Starters(), 11)
	require.NoError(t, s.Validate())
}

func TestMovePlayerToSubSlot_StarterPastEndAppends(t *testing.T) {
	s := newFullStore(t, "4-3-3", 12)

	changed, err := s.MovePlayerToSubSlot("p10", 5, true, "st", NoBenchIndex)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"p12", "p10"}, benchMembers(s))
	assert.Equal(t, -1, s.starterIndex("st"))
}

func TestMovePlayerToSubSlot_Errors(t *testing.T) {
	s := newFullStore(t, "4-3-3", 12)

	_, err := s.MovePlayerToSubSlot("p10", -1, true, "st", NoBenchIndex)
	assert.ErrorIs(t, err, ErrInvalidBenchIndex)

	_, err = s.MovePlayerToSubSlot("ghost", 0, true, "st", NoBenchIndex)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestSwapPlayersInFormation(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		dummy bool
	}{
		{"two starters", "p1", "p10", false},
		{"starter and bench", "p10", "p13", false},
		{"bench and starter", "p12", "p2", false},
		{"two bench entries", "p12", "p14", false},
		{"by slot id", "gk", "st", false},
		{"placeholder starter and bench", "gk", "placeholder-12", true},
		{"placeholder bench and starter", "placeholder-13", "st", true},
		{"two placeholder bench entries", "placeholder-12", "placeholder-13", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s *Store
			if tt.dummy {
				s = NewStore(nil, 0)
				s.SetDummyPlayers()
			} else {
				s = newFullStore(t, "4-3-3", 14)
			}
			before := s.Schema()

			changed, err := s.SwapPlayersInFormation(tt.a, tt.b)
			require.NoError(t, err)
			assert.True(t, changed)
			assert.NotEqual(t, before, s.Schema())
			require.NoError(t, s.Validate())

			changed, err = s.SwapPlayersInFormation(tt.a, tt.b)
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, before, s.Schema())
		})
	}
}

func TestSwapPlayersInFormation_PlaceholderBenchIDsStayUnique(t *testing.T) {
	s := NewStore(nil, 0)
	s.SetDummyPlayers()

	_, err := s.SwapPlayersInFormation("gk", "placeholder-12")
	require.NoError(t, err)
	bench := s.Bench()
	assert.Equal(t, "placeholder-12", bench[0].ID)
	assert.Equal(t, 1, bench[0].JerseyNumber)
	assert.Equal(t, 12, starterAt(t, s, "gk").JerseyNumber)

	// the goalkeeper's own placeholder id is taken by the entry it replaced
	changed, err := s.MoveStarterToSubsGeneral("gk", "gk")
	require.NoError(t, err)
	assert.True(t, changed)
	bench = s.Bench()
	assert.Equal(t, "placeholder-19", bench[len(bench)-1].ID)
	assert.Equal(t, 12, bench[len(bench)-1].JerseyNumber)
	require.NoError(t, s.Validate())

	assert.True(t, s.FillOpenSlots())
	require.NoError(t, s.Validate())
}

func TestSwapPlayersInFormation_StartersKeepSlots(t *testing.T) {
	s := newFullStore(t, "4-3-3", 11)
	_, err := s.SwapPlayersInFormation("p1", "p10")
	require.NoError(t, err)

	assert.Equal(t, "p10", memberAt(t, s, "gk"))
	assert.Equal(t, "p1", memberAt(t, s, "st"))
	assert.Equal(t, "Member p10", starterAt(t, s, "gk").DisplayName)
}

func TestSwapPlayersInFormation_Noops(t *testing.T) {
	s := newFullStore(t, "4-3-3", 11)

	changed, err := s.SwapPlayersInFormation("p1", "p1")
	require.NoError(t, err)
	assert.False(t, changed)

	// member id and slot id of the same starter
	changed, err = s.SwapPlayersInFormation("p1", "gk")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = s.SwapPlayersInFormation("p1", "ghost")
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestMoveStarterToSubsGeneral(t *testing.T) {
	s := newFullStore(t, "4-3-3", 13)

	changed, err := s.MoveStarterToSubsGeneral("p4", "rcb")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, s.Starters(), 10)
	assert.Equal(t, []string{"p12", "p13", "p4"}, benchMembers(s))

	changed, err = s.MoveStarterToSubsGeneral("p12", "")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = s.MoveStarterToSubsGeneral("ghost", "st")
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestSetDummyPlayers(t *testing.T) {
	s := NewStore(nil, 0)
	s.SetDummyPlayers()

	starters := s.Starters()
	bench := s.Bench()
	require.Len(t, starters, 11)
	require.Len(t, bench, 7)
	for i, st := range starters {
		assert.True(t, st.IsPlaceholder())
		assert.NotEmpty(t, st.DisplayName)
		assert.Equal(t, i+1, st.JerseyNumber)
	}
	for i, b := range bench {
		assert.True(t, b.IsPlaceholder())
		assert.NotEmpty(t, b.DisplayName)
		assert.Equal(t, 12+i, b.JerseyNumber)
	}
	assert.Equal(t, "Player 1", starters[0].DisplayName)
	assert.Equal(t, "placeholder-12", bench[0].ID)
	require.NoError(t, s.Validate())
}

func TestFillOpenSlots(t *testing.T) {
	s := newFullStore(t, "4-3-3", 9)

	assert.True(t, s.FillOpenSlots())
	require.Len(t, s.Starters(), 11)
	assert.True(t, starterAt(t, s, "st").IsPlaceholder())
	assert.Equal(t, 10, starterAt(t, s, "st").JerseyNumber)
	assert.Len(t, s.Bench(), 7)

	assert.False(t, s.FillOpenSlots())
}

func TestPlaceholdersMoveLikeMembers(t *testing.T) {
	s := NewStore(nil, 0)
	s.SetDummyPlayers()

	changed, err := s.MovePlayerToPosition("placeholder-12", "gk", false, "", 0)
	require.NoError(t, err)
	assert.True(t, changed)

	gk := starterAt(t, s, "gk")
	assert.Equal(t, 12, gk.JerseyNumber)
	bench := s.Bench()
	assert.Equal(t, "placeholder-1", bench[len(bench)-1].ID)
	assert.Equal(t, models.BenchAssignment{ID: "placeholder-1", JerseyNumber: 1, DisplayName: "Player 1"}, bench[len(bench)-1])
}
