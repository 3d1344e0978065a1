package formation

import (
	"sort"

	"github.com/google/uuid"
	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/mcdev12/lineup/go/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NoBenchIndex marks an absent bench origin
const NoBenchIndex = -1

// Store holds the preset, starters and bench of one team and owns every
// mutation algorithm. It is not safe for concurrent use; Engine serializes access.
type Store struct {
	catalog   *preset.Catalog
	benchSize int
	logger    zerolog.Logger

	presetName string
	slots      []models.PositionSlot
	slotOrder  map[string]int
	starters   []models.StarterAssignment
	bench      []models.BenchAssignment
}

// NewStore creates an empty store on the catalog's default preset
func NewStore(catalog *preset.Catalog, benchSize int) *Store {
	if catalog == nil {
		catalog = preset.Default()
	}
	if benchSize <= 0 {
		benchSize = catalog.BenchSize()
	}
	s := &Store{
		catalog:   catalog,
		benchSize: benchSize,
		logger:    log.Logger,
	}
	// the default preset is validated by the catalog
	slots, _ := catalog.SlotsFor(catalog.DefaultPreset())
	s.setPreset(catalog.DefaultPreset(), slots)
	return s
}

// SetLogger replaces the logger used for invariant reports
func (s *Store) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

// PresetName returns the active preset
func (s *Store) PresetName() string {
	return s.presetName
}

// Slots returns the slots of the active preset
func (s *Store) Slots() []models.PositionSlot {
	out := make([]models.PositionSlot, len(s.slots))
	copy(out, s.slots)
	return out
}

// BenchSize returns the bench capacity used for placeholders and planning
func (s *Store) BenchSize() int {
	return s.benchSize
}

// Starters returns a copy of the starters in preset slot order
func (s *Store) Starters() []models.StarterAssignment {
	out := make([]models.StarterAssignment, len(s.starters))
	for i, st := range s.starters {
		st.MemberID = cloneID(st.MemberID)
		out[i] = st
	}
	return out
}

// Bench returns a copy of the bench in display order
func (s *Store) Bench() []models.BenchAssignment {
	out := make([]models.BenchAssignment, len(s.bench))
	for i, b := range s.bench {
		b.MemberID = cloneID(b.MemberID)
		out[i] = b
	}
	return out
}

// IsEmpty reports whether the pitch and the bench hold nobody at all
func (s *Store) IsEmpty() bool {
	return len(s.starters) == 0 && len(s.bench) == 0
}

// HasMembers reports whether any real roster member is assigned
func (s *Store) HasMembers() bool {
	for _, st := range s.starters {
		if st.MemberID != nil {
			return true
		}
	}
	for _, b := range s.bench {
		if b.MemberID != nil {
			return true
		}
	}
	return false
}

// Load replaces the state with a persisted schema. Unknown presets fall back to
// the catalog default; starters on unknown or duplicate slots and repeated
// members are dropped so the invariants hold whatever the document contains.
func (s *Store) Load(schema models.FormationSchema) {
	name := schema.Preset
	slots, err := s.catalog.SlotsFor(name)
	if err != nil {
		s.logger.Warn().Err(err).Str("preset", name).Msg("persisted preset unknown, using default")
		name = s.catalog.DefaultPreset()
		slots, _ = s.catalog.SlotsFor(name)
	}
	s.setPreset(name, slots)

	seenMembers := make(map[string]bool)
	claim := func(id *string) bool {
		if id == nil {
			return true
		}
		if seenMembers[*id] {
			return false
		}
		seenMembers[*id] = true
		return true
	}

	s.starters = make([]models.StarterAssignment, 0, len(s.slots))
	taken := make(map[string]bool)
	var demoted []occupant
	for _, st := range schema.Starters {
		slot, ok := s.slot(st.PositionID)
		if !ok || taken[st.PositionID] {
			if st.MemberID != nil {
				demoted = append(demoted, starterOccupant(st))
			}
			continue
		}
		if !claim(st.MemberID) {
			continue
		}
		taken[st.PositionID] = true
		s.starters = append(s.starters, starterOccupant(st).starterAt(slot))
	}

	s.bench = make([]models.BenchAssignment, 0, len(schema.Subs))
	benchIDs := make(map[string]bool)
	addBench := func(o occupant) {
		if !claim(o.memberID) {
			return
		}
		entry := o.benchEntry()
		if benchIDs[entry.ID] {
			entry.ID = uuid.NewString()
		}
		benchIDs[entry.ID] = true
		s.bench = append(s.bench, entry)
	}
	for _, b := range schema.Subs {
		addBench(benchOccupant(b))
	}
	for _, o := range demoted {
		addBench(o)
	}
	s.sortStarters()
}

// Schema returns the persistable form of the current state
func (s *Store) Schema() models.FormationSchema {
	return models.FormationSchema{
		Preset:   s.presetName,
		Starters: s.Starters(),
		Subs:     s.Bench(),
	}
}

func (s *Store) setPreset(name string, slots []models.PositionSlot) {
	s.presetName = name
	s.slots = slots
	s.slotOrder = make(map[string]int, len(slots))
	for i, slot := range slots {
		s.slotOrder[slot.ID] = i
	}
}

func (s *Store) slot(positionID string) (models.PositionSlot, bool) {
	i, ok := s.slotOrder[positionID]
	if !ok {
		return models.PositionSlot{}, false
	}
	return s.slots[i], true
}

func (s *Store) starterIndex(positionID string) int {
	for i, st := range s.starters {
		if st.PositionID == positionID {
			return i
		}
	}
	return -1
}

// firstOpenSlot returns the first slot, in preset order, without a starter
func (s *Store) firstOpenSlot() (models.PositionSlot, bool) {
	for _, slot := range s.slots {
		if s.starterIndex(slot.ID) < 0 {
			return slot, true
		}
	}
	return models.PositionSlot{}, false
}

func (s *Store) sortStarters() {
	sort.SliceStable(s.starters, func(i, j int) bool {
		return s.slotOrder[s.starters[i].PositionID] < s.slotOrder[s.starters[j].PositionID]
	})
}

func (s *Store) removeStarter(i int) occupant {
	o := starterOccupant(s.starters[i])
	s.starters = append(s.starters[:i], s.starters[i+1:]...)
	return o
}

func (s *Store) removeBench(i int) occupant {
	o := benchOccupant(s.bench[i])
	s.bench = append(s.bench[:i], s.bench[i+1:]...)
	return o
}

// putStarter places o on slot. The slot must be open.
func (s *Store) putStarter(slot models.PositionSlot, o occupant) {
	s.starters = append(s.starters, o.starterAt(slot))
}

// location is where an occupant currently sits
type location struct {
	position models.RosterPosition
	index    int
}

// benchEntryFor converts o into a bench entry whose id no other bench entry
// uses. The entry at index skip is ignored since it is about to be replaced.
func (s *Store) benchEntryFor(o occupant, skip int) models.BenchAssignment {
	entry := o.benchEntry()
	if entry.MemberID != nil || !s.benchIDTaken(entry.ID, skip) {
		return entry
	}
	alloc := newJerseyAllocator(s.starters, s.bench)
	for {
		id := placeholderID(alloc.next())
		if !s.benchIDTaken(id, skip) {
			entry.ID = id
			return entry
		}
	}
}

func (s *Store) benchIDTaken(id string, skip int) bool {
	for i, b := range s.bench {
		if i != skip && b.ID == id {
			return true
		}
	}
	return false
}

func matchesStarter(st models.StarterAssignment, id string) bool {
	return st.ID == id || (st.MemberID != nil && *st.MemberID == id)
}

func matchesBench(b models.BenchAssignment, id string) bool {
	return b.ID == id || (b.MemberID != nil && *b.MemberID == id)
}

// locate finds an occupant by member id first, then by assignment id.
func (s *Store) locate(id string) (location, bool) {
	for i, st := range s.starters {
		if st.MemberID != nil && *st.MemberID == id {
			return location{models.RosterPositionStarter, i}, true
		}
	}
	for i, b := range s.bench {
		if b.MemberID != nil && *b.MemberID == id {
			return location{models.RosterPositionBench, i}, true
		}
	}
	for i, st := range s.starters {
		if st.ID == id {
			return location{models.RosterPositionStarter, i}, true
		}
	}
	for i, b := range s.bench {
		if b.ID == id {
			return location{models.RosterPositionBench, i}, true
		}
	}
	return location{}, false
}

// locateWithOrigin trusts the drag origin when it points at the referenced
// occupant and falls back to a search otherwise.
func (s *Store) locateWithOrigin(id string, originIsStarter bool, originPositionID string, originBenchIndex int) (location, bool) {
	if originIsStarter {
		if i := s.starterIndex(originPositionID); i >= 0 && matchesStarter(s.starters[i], id) {
			return location{models.RosterPositionStarter, i}, true
		}
	} else if originBenchIndex >= 0 && originBenchIndex < len(s.bench) && matchesBench(s.bench[originBenchIndex], id) {
		return location{models.RosterPositionBench, originBenchIndex}, true
	}
	return s.locate(id)
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
