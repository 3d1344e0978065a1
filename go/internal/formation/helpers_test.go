package formation

import (
	"fmt"
	"testing"

	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/mcdev12/lineup/go/internal/models"
	"github.com/stretchr/testify/require"
)

// newFullStore returns a store on presetName with members p1..pN on the slots in
// preset order and the rest on the bench.
func newFullStore(t *testing.T, presetName string, members int) *Store {
	t.Helper()
	s := NewStore(preset.Default(), 0)
	s.Load(fullSchema(t, presetName, members))
	require.NoError(t, s.Validate())
	return s
}

func fullSchema(t *testing.T, presetName string, members int) models.FormationSchema {
	t.Helper()
	slots, err := preset.SlotsFor(presetName)
	require.NoError(t, err)

	schema := models.FormationSchema{Preset: presetName}
	for i := 1; i <= members; i++ {
		id := fmt.Sprintf("p%d", i)
		if i <= len(slots) {
			slot := slots[i-1]
			schema.Starters = append(schema.Starters, models.StarterAssignment{
				ID:           slot.ID,
				PositionID:   slot.ID,
				MemberID:     models.StringPtr(id),
				JerseyNumber: i,
				DisplayName:  "Member " + id,
			})
			continue
		}
		schema.Subs = append(schema.Subs, models.BenchAssignment{
			ID:           id,
			MemberID:     models.StringPtr(id),
			JerseyNumber: i,
			DisplayName:  "Member " + id,
		})
	}
	return schema
}

func starterAt(t *testing.T, s *Store, positionID string) models.StarterAssignment {
	t.Helper()
	i := s.starterIndex(positionID)
	require.GreaterOrEqual(t, i, 0, "no starter on %s", positionID)
	return s.Starters()[i]
}

func memberAt(t *testing.T, s *Store, positionID string) string {
	t.Helper()
	st := starterAt(t, s, positionID)
	require.NotNil(t, st.MemberID, "placeholder on %s", positionID)
	return *st.MemberID
}

func benchMembers(s *Store) []string {
	var out []string
	for _, b := range s.Bench() {
		if b.MemberID != nil {
			out = append(out, *b.MemberID)
		} else {
			out = append(out, b.ID)
		}
	}
	return out
}

func roster(codes ...string) []models.RosterMember {
	out := make([]models.RosterMember, len(codes))
	for i, code := range codes {
		jersey := i + 1
		out[i] = models.RosterMember{
			ID:                    fmt.Sprintf("m%d", i+1),
			PreferredPositionCode: code,
			JerseyNumber:          &jersey,
			DisplayName:           fmt.Sprintf("Member %d", i+1),
		}
	}
	return out
}
