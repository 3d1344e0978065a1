package formation

import (
	"testing"

	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangePreset_KeepsSharedSlots(t *testing.T) {
	s := newFullStore(t, "4-3-3", 11)

	changed, err := s.ChangePreset("4-4-2")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "4-4-2", s.PresetName())

	for pos, member := range map[string]string{
		"gk": "p1", "lb": "p2", "lcb": "p3", "rcb": "p4", "rb": "p5", "lcm": "p6", "rcm": "p8",
	} {
		assert.Equal(t, member, memberAt(t, s, pos), pos)
	}

	// coordinates follow the new preset
	slots, _ := preset.SlotsFor("4-4-2")
	for i, st := range s.Starters() {
		assert.Equal(t, slots[i].ID, st.PositionID)
		assert.Equal(t, slots[i].XNorm, st.XNorm)
		assert.Equal(t, slots[i].YNorm, st.YNorm)
	}

	assert.Equal(t, []string{"p7", "p9", "p10", "p11"}, benchMembers(s))
	for pos, jersey := range map[string]int{"lm": 12, "rm": 13, "lst": 14, "rst": 15} {
		st := starterAt(t, s, pos)
		assert.True(t, st.IsPlaceholder(), pos)
		assert.Equal(t, jersey, st.JerseyNumber, pos)
	}
	require.NoError(t, s.Validate())
}

func TestChangePreset_Idempotent(t *testing.T) {
	s := newFullStore(t, "4-3-3", 14)

	_, err := s.ChangePreset("3-5-2")
	require.NoError(t, err)
	once := s.Schema()

	changed, err := s.ChangePreset("3-5-2")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, once, s.Schema())
}

func TestChangePreset_SamePresetFullPitchIsNoop(t *testing.T) {
	s := newFullStore(t, "4-3-3", 11)
	changed, err := s.ChangePreset("4-3-3")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestChangePreset_SamePresetFillsOpenSlots(t *testing.T) {
	s := newFullStore(t, "4-3-3", 10)
	changed, err := s.ChangePreset("4-3-3")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, starterAt(t, s, "rw").IsPlaceholder())
}

func TestChangePreset_Unknown(t *testing.T) {
	s := newFullStore(t, "4-3-3", 11)
	before := s.Schema()

	changed, err := s.ChangePreset("2-2-2")
	assert.False(t, changed)
	assert.ErrorIs(t, err, preset.ErrUnknownPreset)

	var presetErr *preset.UnknownPresetError
	require.ErrorAs(t, err, &presetErr)
	assert.Equal(t, "2-2-2", presetErr.Name)
	assert.Equal(t, before, s.Schema())
}

func TestChangePreset_RoundTripKeepsEveryone(t *testing.T) {
	s := newFullStore(t, "4-3-3", 18)

	for _, name := range preset.Names() {
		_, err := s.ChangePreset(name)
		require.NoError(t, err, name)
		require.NoError(t, s.Validate(), name)
		assert.Len(t, s.Starters(), 11, name)
	}

	members := make(map[string]bool)
	for _, st := range s.Starters() {
		if st.MemberID != nil {
			members[*st.MemberID] = true
		}
	}
	for _, b := range s.Bench() {
		if b.MemberID != nil {
			members[*b.MemberID] = true
		}
	}
	assert.Len(t, members, 18)
}
