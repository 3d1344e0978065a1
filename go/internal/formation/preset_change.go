package formation

import (
	"reflect"

	"github.com/mcdev12/lineup/go/internal/models"
)

// ChangePreset switches to another preset. Occupants whose slot id exists in the
// new preset keep it with the new coordinates; real members on vanished slots go
// to the end of the bench in pitch order; open slots get placeholders. Calling it
// again with the same preset changes nothing.
func (s *Store) ChangePreset(name string) (bool, error) {
	slots, err := s.catalog.SlotsFor(name)
	if err != nil {
		return false, err
	}

	byPosition := make(map[string]models.StarterAssignment, len(s.starters))
	for _, st := range s.starters {
		byPosition[st.PositionID] = st
	}

	kept := make([]models.StarterAssignment, 0, len(slots))
	keptIDs := make(map[string]bool, len(slots))
	for _, slot := range slots {
		if st, ok := byPosition[slot.ID]; ok {
			kept = append(kept, st)
			keptIDs[slot.ID] = true
		}
	}

	bench := s.Bench()
	for _, st := range s.starters {
		if !keptIDs[st.PositionID] && st.MemberID != nil {
			bench = append(bench, starterOccupant(st).benchEntry())
		}
	}

	alloc := newJerseyAllocator(kept, bench)
	starters := make([]models.StarterAssignment, 0, len(slots))
	for _, slot := range slots {
		if st, ok := byPosition[slot.ID]; ok {
			starters = append(starters, starterOccupant(st).starterAt(slot))
		} else {
			starters = append(starters, placeholderOccupant(alloc.next()).starterAt(slot))
		}
	}

	if name == s.presetName && sameStarters(starters, s.starters) && sameBench(bench, s.bench) {
		return false, nil
	}

	s.setPreset(name, slots)
	s.starters = starters
	s.bench = bench
	s.sortStarters()
	s.checkInvariants("change_preset")
	return true, nil
}

func sameStarters(a, b []models.StarterAssignment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameBench(a, b []models.BenchAssignment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
