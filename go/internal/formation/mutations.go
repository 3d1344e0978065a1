package formation

import (
	"fmt"

	"github.com/mcdev12/lineup/go/internal/models"
)

// MovePlayerToPosition moves an occupant onto a pitch slot, adopting the slot's
// coordinates and label. A displaced occupant goes to the mover's origin slot when
// the mover came from a different starter slot, otherwise to the end of the bench.
// Dropping a starter on its own slot is a no-op.
func (s *Store) MovePlayerToPosition(id, targetPositionID string, originIsStarter bool, originPositionID string, originBenchIndex int) (bool, error) {
	target, ok := s.slot(targetPositionID)
	if !ok {
		return false, fmt.Errorf("%w: %q in preset %s", ErrUnknownPosition, targetPositionID, s.presetName)
	}
	if originIsStarter && originPositionID == targetPositionID {
		return false, nil
	}

	loc, ok := s.locateWithOrigin(id, originIsStarter, originPositionID, originBenchIndex)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrAssignmentNotFound, id)
	}

	var mover occupant
	var fromPositionID string
	moverWasStarter := loc.position == models.RosterPositionStarter
	if moverWasStarter {
		fromPositionID = s.starters[loc.index].PositionID
		if fromPositionID == targetPositionID {
			return false, nil
		}
		mover = s.removeStarter(loc.index)
	} else {
		mover = s.removeBench(loc.index)
	}

	var (
		displaced    occupant
		hasDisplaced bool
	)
	if i := s.starterIndex(targetPositionID); i >= 0 {
		displaced = s.removeStarter(i)
		hasDisplaced = true
	}

	s.putStarter(target, mover)

	if hasDisplaced {
		if origin, ok := s.slot(fromPositionID); moverWasStarter && ok {
			s.putStarter(origin, displaced)
		} else {
			s.bench = append(s.bench, s.benchEntryFor(displaced, NoBenchIndex))
		}
	}

	s.sortStarters()
	s.checkInvariants("move_to_position")
	return true, nil
}

// MovePlayerToSubSlot moves an occupant onto a bench index. Bench to bench moves
// exchange the two entries. A starter dropped on an occupied index takes that
// index and the displaced entry is promoted to the first open pitch slot, or
// shifted one place down the bench when the pitch is full. Indices past the end
// append.
func (s *Store) MovePlayerToSubSlot(id string, targetBenchIndex int, originIsStarter bool, originPositionID string, originBenchIndex int) (bool, error) {
	if targetBenchIndex < 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidBenchIndex, targetBenchIndex)
	}
	if !originIsStarter && originBenchIndex == targetBenchIndex {
		return false, nil
	}

	loc, ok := s.locateWithOrigin(id, originIsStarter, originPositionID, originBenchIndex)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrAssignmentNotFound, id)
	}

	if loc.position == models.RosterPositionBench {
		return s.moveWithinBench(loc.index, targetBenchIndex), nil
	}

	mover := s.removeStarter(loc.index)
	if targetBenchIndex >= len(s.bench) {
		s.bench = append(s.bench, s.benchEntryFor(mover, NoBenchIndex))
		s.checkInvariants("move_to_sub_slot")
		return true, nil
	}

	displaced := benchOccupant(s.bench[targetBenchIndex])
	s.bench[targetBenchIndex] = s.benchEntryFor(mover, targetBenchIndex)
	if slot, ok := s.firstOpenSlot(); ok {
		s.putStarter(slot, displaced)
		s.sortStarters()
	} else {
		s.insertBench(targetBenchIndex+1, displaced.benchEntry())
	}

	s.checkInvariants("move_to_sub_slot")
	return true, nil
}

func (s *Store) moveWithinBench(from, to int) bool {
	if from == to {
		return false
	}
	if to >= len(s.bench) {
		if from == len(s.bench)-1 {
			return false
		}
		o := s.removeBench(from)
		s.bench = append(s.bench, o.benchEntry())
	} else {
		s.bench[from], s.bench[to] = s.bench[to], s.bench[from]
	}
	s.checkInvariants("move_within_bench")
	return true
}

func (s *Store) insertBench(i int, entry models.BenchAssignment) {
	if i >= len(s.bench) {
		s.bench = append(s.bench, entry)
		return
	}
	s.bench = append(s.bench, models.BenchAssignment{})
	copy(s.bench[i+1:], s.bench[i:])
	s.bench[i] = entry
}

// SwapPlayersInFormation exchanges two occupants wherever they sit. Starters keep
// their slots and trade occupants, a starter and a bench entry trade places, and
// two bench entries trade order.
func (s *Store) SwapPlayersInFormation(idA, idB string) (bool, error) {
	if idA == idB {
		return false, nil
	}
	a, ok := s.locate(idA)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrAssignmentNotFound, idA)
	}
	b, ok := s.locate(idB)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrAssignmentNotFound, idB)
	}
	if a == b {
		return false, nil
	}

	switch {
	case a.position == models.RosterPositionStarter && b.position == models.RosterPositionStarter:
		s.swapStarters(a.index, b.index)
	case a.position == models.RosterPositionStarter:
		s.swapStarterWithBench(a.index, b.index)
	case b.position == models.RosterPositionStarter:
		s.swapStarterWithBench(b.index, a.index)
	default:
		s.bench[a.index], s.bench[b.index] = s.bench[b.index], s.bench[a.index]
	}

	s.checkInvariants("swap")
	return true, nil
}

func (s *Store) swapStarters(i, j int) {
	slotI, _ := s.slot(s.starters[i].PositionID)
	slotJ, _ := s.slot(s.starters[j].PositionID)
	oi, oj := starterOccupant(s.starters[i]), starterOccupant(s.starters[j])
	s.starters[i] = oj.starterAt(slotI)
	s.starters[j] = oi.starterAt(slotJ)
}

// swapStarterWithBench trades a starter with a bench entry. A placeholder taking
// a placeholder's bench entry keeps that entry's id, like starters keep the slot
// id, so swapping the same two ids again restores both.
func (s *Store) swapStarterWithBench(starterIdx, benchIdx int) {
	slot, _ := s.slot(s.starters[starterIdx].PositionID)
	replaced := s.bench[benchIdx]
	promoted := benchOccupant(replaced)
	demoted := starterOccupant(s.starters[starterIdx])
	s.starters[starterIdx] = promoted.starterAt(slot)

	entry := s.benchEntryFor(demoted, benchIdx)
	if demoted.memberID == nil && replaced.MemberID == nil {
		entry.ID = replaced.ID
	}
	s.bench[benchIdx] = entry
}

// MoveStarterToSubsGeneral sends a starter to the end of the bench and leaves its
// slot open. Occupants already on the bench are left alone.
func (s *Store) MoveStarterToSubsGeneral(memberID, originPositionID string) (bool, error) {
	loc, ok := s.locateWithOrigin(memberID, true, originPositionID, NoBenchIndex)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrAssignmentNotFound, memberID)
	}
	if loc.position != models.RosterPositionStarter {
		return false, nil
	}

	o := s.removeStarter(loc.index)
	s.bench = append(s.bench, s.benchEntryFor(o, NoBenchIndex))
	s.checkInvariants("move_to_subs")
	return true, nil
}

// SetDummyPlayers fills every slot and the whole bench with placeholders
func (s *Store) SetDummyPlayers() {
	alloc := newJerseyAllocator(nil, nil)
	s.starters = make([]models.StarterAssignment, 0, len(s.slots))
	for _, slot := range s.slots {
		s.putStarter(slot, placeholderOccupant(alloc.next()))
	}
	s.bench = make([]models.BenchAssignment, 0, s.benchSize)
	for i := 0; i < s.benchSize; i++ {
		s.bench = append(s.bench, placeholderOccupant(alloc.next()).benchEntry())
	}
	s.checkInvariants("set_dummy_players")
}

// FillOpenSlots puts placeholders on open slots and pads the bench up to its
// capacity. It reports whether anything was added.
func (s *Store) FillOpenSlots() bool {
	alloc := newJerseyAllocator(s.starters, s.bench)
	changed := false
	for _, slot := range s.slots {
		if s.starterIndex(slot.ID) < 0 {
			s.putStarter(slot, placeholderOccupant(alloc.next()))
			changed = true
		}
	}
	for len(s.bench) < s.benchSize {
		s.bench = append(s.bench, placeholderOccupant(alloc.next()).benchEntry())
		changed = true
	}
	if changed {
		s.sortStarters()
		s.checkInvariants("fill_open_slots")
	}
	return changed
}
