package formation

import (
	"testing"

	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/mcdev12/lineup/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(nil, 0)
	assert.Equal(t, preset.DefaultPresetName, s.PresetName())
	assert.Equal(t, preset.DefaultBenchSize, s.BenchSize())
	assert.Len(t, s.Slots(), 11)
	assert.True(t, s.IsEmpty())
	assert.False(t, s.HasMembers())
}

func TestLoad_RoundTrip(t *testing.T) {
	schema := fullSchema(t, "4-4-2", 15)
	s := NewStore(nil, 0)
	s.Load(schema)

	out := s.Schema()
	assert.Equal(t, "4-4-2", out.Preset)
	require.Len(t, out.Starters, 11)
	require.Len(t, out.Subs, 4)
	assert.Equal(t, "p1", *out.Starters[0].MemberID)
	assert.Equal(t, "p12", out.Subs[0].ID)

	// coordinates come from the catalog, not the document
	slots, _ := preset.SlotsFor("4-4-2")
	assert.Equal(t, slots[0].XNorm, out.Starters[0].XNorm)
	assert.Equal(t, slots[0].Label, out.Starters[0].Label)
}

func TestLoad_UnknownPresetFallsBack(t *testing.T) {
	s := NewStore(nil, 0)
	s.Load(models.FormationSchema{Preset: "9-0-1"})
	assert.Equal(t, preset.DefaultPresetName, s.PresetName())
}

func TestLoad_RepairsBrokenDocument(t *testing.T) {
	s := NewStore(nil, 0)
	s.Load(models.FormationSchema{
		Preset: "4-3-3",
		Starters: []models.StarterAssignment{
			{ID: "st", PositionID: "st", MemberID: models.StringPtr("a")},
			{ID: "st", PositionID: "st", MemberID: models.StringPtr("b")},
			{ID: "lst", PositionID: "lst", MemberID: models.StringPtr("c")},
			{ID: "gk", PositionID: "gk", MemberID: models.StringPtr("a")},
		},
		Subs: []models.BenchAssignment{
			{ID: "x", MemberID: models.StringPtr("a")},
			{ID: "dup", MemberID: models.StringPtr("d")},
			{ID: "dup", MemberID: models.StringPtr("e")},
		},
	})

	require.NoError(t, s.Validate())
	assert.Len(t, s.Starters(), 1)
	assert.Equal(t, "a", memberAt(t, s, "st"))

	bench := s.Bench()
	require.Len(t, bench, 4)
	assert.Equal(t, "d", *bench[0].MemberID)
	assert.Equal(t, "e", *bench[1].MemberID)
	assert.NotEqual(t, bench[0].ID, bench[1].ID)
	// members on a duplicate or unknown slot are demoted, not lost
	assert.Equal(t, "b", *bench[2].MemberID)
	assert.Equal(t, "c", *bench[3].MemberID)
}

func TestStarters_ReturnsCopy(t *testing.T) {
	s := newFullStore(t, "4-3-3", 11)
	starters := s.Starters()
	*starters[0].MemberID = "changed"
	starters[0].DisplayName = "changed"

	assert.Equal(t, "p1", memberAt(t, s, "gk"))
	assert.Equal(t, "Member p1", starterAt(t, s, "gk").DisplayName)
}

func TestLocate_MemberIDBeforeAssignmentID(t *testing.T) {
	s := NewStore(nil, 0)
	s.Load(models.FormationSchema{
		Preset: "4-3-3",
		Starters: []models.StarterAssignment{
			{ID: "gk", PositionID: "gk", MemberID: models.StringPtr("st")},
			{ID: "st", PositionID: "st", MemberID: models.StringPtr("p9")},
		},
	})

	loc, ok := s.locate("st")
	require.True(t, ok)
	assert.Equal(t, "gk", s.starters[loc.index].PositionID)

	loc, ok = s.locate("p9")
	require.True(t, ok)
	assert.Equal(t, "st", s.starters[loc.index].PositionID)

	_, ok = s.locate("nobody")
	assert.False(t, ok)
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		schema  models.FormationSchema
		wantErr error
	}{
		{
			name:   "valid",
			schema: fullSchema(t, "4-3-3", 18),
		},
		{
			name:    "unknown preset",
			schema:  models.FormationSchema{Preset: "1-1-1"},
			wantErr: preset.ErrUnknownPreset,
		},
		{
			name: "unknown position",
			schema: models.FormationSchema{Preset: "4-3-3", Starters: []models.StarterAssignment{
				{ID: "lst", PositionID: "lst"},
			}},
			wantErr: ErrInvariant,
		},
		{
			name: "duplicate member",
			schema: models.FormationSchema{
				Preset:   "4-3-3",
				Starters: []models.StarterAssignment{{ID: "gk", PositionID: "gk", MemberID: models.StringPtr("a")}},
				Subs:     []models.BenchAssignment{{ID: "a", MemberID: models.StringPtr("a")}},
			},
			wantErr: ErrInvariant,
		},
		{
			name: "position twice",
			schema: models.FormationSchema{Preset: "4-3-3", Starters: []models.StarterAssignment{
				{ID: "gk", PositionID: "gk"},
				{ID: "gk", PositionID: "gk"},
			}},
			wantErr: ErrInvariant,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(nil, tt.schema)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
