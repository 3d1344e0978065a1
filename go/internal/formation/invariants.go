package formation

import (
	"fmt"

	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/mcdev12/lineup/go/internal/models"
)

// Validate checks the formation invariants against the active preset
func (s *Store) Validate() error {
	if err := checkAssignments(s.slots, s.starters, s.bench); err != nil {
		return err
	}
	return checkBenchIDs(s.bench)
}

// checkBenchIDs rejects bench entries sharing an id. Documents are not held to
// this since Store.Load reassigns duplicates.
func checkBenchIDs(bench []models.BenchAssignment) error {
	seen := make(map[string]bool, len(bench))
	for _, b := range bench {
		if seen[b.ID] {
			return fmt.Errorf("%w: bench id %q used twice", ErrInvariant, b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}

// ValidateDocument checks a persisted schema against a catalog. Unlike
// Store.Load it rejects instead of repairing.
func ValidateDocument(catalog *preset.Catalog, schema models.FormationSchema) error {
	if catalog == nil {
		catalog = preset.Default()
	}
	slots, err := catalog.SlotsFor(schema.Preset)
	if err != nil {
		return err
	}
	return checkAssignments(slots, schema.Starters, schema.Subs)
}

func checkAssignments(slots []models.PositionSlot, starters []models.StarterAssignment, bench []models.BenchAssignment) error {
	if len(starters) > len(slots) {
		return fmt.Errorf("%w: %d starters for %d slots", ErrInvariant, len(starters), len(slots))
	}

	known := make(map[string]bool, len(slots))
	for _, slot := range slots {
		known[slot.ID] = true
	}

	positions := make(map[string]bool, len(starters))
	members := make(map[string]bool, len(starters)+len(bench))
	for _, st := range starters {
		if !known[st.PositionID] {
			return fmt.Errorf("%w: starter on unknown position %q", ErrInvariant, st.PositionID)
		}
		if positions[st.PositionID] {
			return fmt.Errorf("%w: position %q occupied twice", ErrInvariant, st.PositionID)
		}
		positions[st.PositionID] = true
		if st.MemberID != nil {
			if members[*st.MemberID] {
				return fmt.Errorf("%w: member %q assigned twice", ErrInvariant, *st.MemberID)
			}
			members[*st.MemberID] = true
		}
	}
	for _, b := range bench {
		if b.MemberID == nil {
			continue
		}
		if members[*b.MemberID] {
			return fmt.Errorf("%w: member %q assigned twice", ErrInvariant, *b.MemberID)
		}
		members[*b.MemberID] = true
	}
	return nil
}

// checkInvariants runs Validate after a mutation in formationdebug builds.
func (s *Store) checkInvariants(op string) {
	if !debugInvariants {
		return
	}
	if err := s.Validate(); err != nil {
		s.logger.Error().Err(err).Str("op", op).Msg("formation invariant violated")
	}
}
