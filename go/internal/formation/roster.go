package formation

import "github.com/mcdev12/lineup/go/internal/models"

// ReconcileRoster refreshes names and jersey numbers of assigned members from a
// newly supplied roster. Starters who left the roster become placeholders and
// departed bench entries are dropped before the bench is padded back to capacity.
func (s *Store) ReconcileRoster(roster []models.RosterMember) bool {
	byID := make(map[string]models.RosterMember, len(roster))
	for _, m := range roster {
		if _, exists := byID[m.ID]; !exists {
			byID[m.ID] = m
		}
	}

	changed := false
	var departed []int
	for i, st := range s.starters {
		if st.MemberID == nil {
			continue
		}
		m, ok := byID[*st.MemberID]
		if !ok {
			departed = append(departed, i)
			continue
		}
		slot, _ := s.slot(st.PositionID)
		updated := memberOccupant(m).starterAt(slot)
		if updated.JerseyNumber == 0 {
			updated.JerseyNumber = st.JerseyNumber
		}
		if !sameStarter(updated, st) {
			s.starters[i] = updated
			changed = true
		}
	}

	bench := make([]models.BenchAssignment, 0, len(s.bench))
	for _, b := range s.bench {
		if b.MemberID == nil {
			bench = append(bench, b)
			continue
		}
		m, ok := byID[*b.MemberID]
		if !ok {
			changed = true
			continue
		}
		updated := memberOccupant(m).benchEntry()
		if updated.JerseyNumber == 0 {
			updated.JerseyNumber = b.JerseyNumber
		}
		if !sameBenchEntry(updated, b) {
			changed = true
		}
		bench = append(bench, updated)
	}
	s.bench = bench

	if len(departed) > 0 {
		alloc := newJerseyAllocator(s.starters, s.bench)
		for _, i := range departed {
			slot, _ := s.slot(s.starters[i].PositionID)
			s.starters[i] = placeholderOccupant(alloc.next()).starterAt(slot)
		}
		changed = true
	}

	if s.FillOpenSlots() {
		changed = true
	}
	if changed {
		s.checkInvariants("reconcile_roster")
	}
	return changed
}

func sameStarter(a, b models.StarterAssignment) bool {
	return a.ID == b.ID && a.PositionID == b.PositionID &&
		a.JerseyNumber == b.JerseyNumber && a.DisplayName == b.DisplayName &&
		sameID(a.MemberID, b.MemberID)
}

func sameBenchEntry(a, b models.BenchAssignment) bool {
	return a.ID == b.ID && a.JerseyNumber == b.JerseyNumber &&
		a.DisplayName == b.DisplayName && sameID(a.MemberID, b.MemberID)
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
