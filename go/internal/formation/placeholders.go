package formation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcdev12/lineup/go/internal/models"
)

// occupant is whoever sits in a starter slot or bench entry, stripped of the
// slot-specific fields so it can move between the two shapes.
type occupant struct {
	memberID     *string
	jerseyNumber int
	displayName  string
	benchID      string
}

func starterOccupant(s models.StarterAssignment) occupant {
	return occupant{
		memberID:     s.MemberID,
		jerseyNumber: s.JerseyNumber,
		displayName:  s.DisplayName,
	}
}

func benchOccupant(b models.BenchAssignment) occupant {
	return occupant{
		memberID:     b.MemberID,
		jerseyNumber: b.JerseyNumber,
		displayName:  b.DisplayName,
		benchID:      b.ID,
	}
}

func memberOccupant(m models.RosterMember) occupant {
	o := occupant{
		memberID:    models.StringPtr(m.ID),
		displayName: m.DisplayName,
	}
	if m.JerseyNumber != nil {
		o.jerseyNumber = *m.JerseyNumber
	}
	if o.displayName == "" {
		o.displayName = m.ID
	}
	return o
}

func placeholderOccupant(jersey int) occupant {
	return occupant{
		jerseyNumber: jersey,
		displayName:  fmt.Sprintf("Player %d", jersey),
		benchID:      placeholderID(jersey),
	}
}

const placeholderPrefix = "placeholder-"

func placeholderID(jersey int) string {
	return fmt.Sprintf("%s%d", placeholderPrefix, jersey)
}

// placeholderSuffix returns the number in a placeholder bench id
func placeholderSuffix(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, placeholderPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// starterAt binds the occupant to a slot; the assignment takes the slot's identity.
func (o occupant) starterAt(slot models.PositionSlot) models.StarterAssignment {
	return models.StarterAssignment{
		ID:           slot.ID,
		PositionID:   slot.ID,
		XNorm:        slot.XNorm,
		YNorm:        slot.YNorm,
		Label:        slot.Label,
		MemberID:     o.memberID,
		JerseyNumber: o.jerseyNumber,
		DisplayName:  o.displayName,
	}
}

// benchEntry converts the occupant into a bench entry. Real members are keyed by
// member id so an entry keeps its identity across round trips through the pitch.
func (o occupant) benchEntry() models.BenchAssignment {
	id := o.benchID
	switch {
	case o.memberID != nil:
		id = *o.memberID
	case id == "":
		id = placeholderID(o.jerseyNumber)
	}
	return models.BenchAssignment{
		ID:           id,
		MemberID:     o.memberID,
		JerseyNumber: o.jerseyNumber,
		DisplayName:  o.displayName,
	}
}

// jerseyAllocator hands out the smallest positive jersey numbers not already worn
// and not already naming a placeholder bench entry.
type jerseyAllocator struct {
	used map[int]bool
}

func newJerseyAllocator(starters []models.StarterAssignment, bench []models.BenchAssignment) *jerseyAllocator {
	a := &jerseyAllocator{used: make(map[int]bool)}
	for _, s := range starters {
		a.reserve(s.JerseyNumber)
	}
	for _, b := range bench {
		a.reserve(b.JerseyNumber)
		if n, ok := placeholderSuffix(b.ID); ok && b.MemberID == nil {
			a.reserve(n)
		}
	}
	return a
}

func (a *jerseyAllocator) reserve(n int) {
	if n > 0 {
		a.used[n] = true
	}
}

func (a *jerseyAllocator) next() int {
	n := 1
	for a.used[n] {
		n++
	}
	a.used[n] = true
	return n
}
