package formation

import (
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/mcdev12/lineup/go/internal/models"
)

// Category is a broad positional group used to match members to slots
type Category int

const (
	CategoryGoalkeeper Category = iota
	CategoryDefender
	CategoryMidfielder
	CategoryForward
	CategoryUnclassified
)

var categoryNames = map[Category]string{
	CategoryGoalkeeper:   "goalkeeper",
	CategoryDefender:     "defender",
	CategoryMidfielder:   "midfielder",
	CategoryForward:      "forward",
	CategoryUnclassified: "unclassified",
}

func (c Category) String() string {
	return categoryNames[c]
}

// categoryWords classifies whole words of a label
var categoryWords = map[string]Category{
	"GOALKEEPER": CategoryGoalkeeper,
	"KEEPER":     CategoryGoalkeeper,
	"GOALIE":     CategoryGoalkeeper,
	"DEFENDER":   CategoryDefender,
	"DEFENCE":    CategoryDefender,
	"DEFENSE":    CategoryDefender,
	"FULLBACK":   CategoryDefender,
	"SWEEPER":    CategoryDefender,
	"BACK":       CategoryDefender,
	"MIDFIELDER": CategoryMidfielder,
	"MIDFIELD":   CategoryMidfielder,
	"FORWARD":    CategoryForward,
	"STRIKER":    CategoryForward,
	"WINGER":     CategoryForward,
	"ATTACKER":   CategoryForward,
}

// maxCodeLen bounds the tokens matched against categoryCodes
const maxCodeLen = 4

// categoryCodes is checked in order against short tokens; the first code
// contained in the token wins, so LWB is a defender before LW can make it a
// forward.
var categoryCodes = []struct {
	category Category
	codes    []string
}{
	{CategoryGoalkeeper, []string{"GK"}},
	{CategoryDefender, []string{"CB", "LB", "RB", "WB", "SW", "DEF"}},
	{CategoryMidfielder, []string{"DM", "CM", "AM", "LM", "RM", "MID"}},
	{CategoryForward, []string{"ST", "CF", "LW", "RW", "SS", "FW", "ATT"}},
}

var (
	plannedCategories = []Category{CategoryGoalkeeper, CategoryDefender, CategoryMidfielder, CategoryForward}
	allCategories     = []Category{CategoryGoalkeeper, CategoryDefender, CategoryMidfielder, CategoryForward, CategoryUnclassified}
)

// CategoryOf classifies a slot label or a preferred position code. Labels are
// split into words and the last classified word wins, so a qualifier such as
// DEFENSIVE in "Defensive Midfielder" does not decide the group.
func CategoryOf(code string) Category {
	words := strings.FieldsFunc(strings.ToUpper(code), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	result := CategoryUnclassified
	for _, w := range words {
		if c, ok := categoryOfWord(w); ok {
			result = c
		}
	}
	return result
}

func categoryOfWord(w string) (Category, bool) {
	if c, ok := categoryWords[w]; ok {
		return c, true
	}
	if len(w) > maxCodeLen {
		return CategoryUnclassified, false
	}
	for _, entry := range categoryCodes {
		for _, c := range entry.codes {
			if strings.Contains(w, c) {
				return entry.category, true
			}
		}
	}
	return CategoryUnclassified, false
}

// Plan is the outcome of an auto-assignment
type Plan struct {
	Starters   []models.StarterAssignment
	Bench      []models.BenchAssignment
	Unassigned []models.RosterMember
}

// Planner distributes an unordered roster over pitch slots and the bench.
// It is a best-effort heuristic: members are shuffled within their category.
type Planner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPlanner constructs a Planner with its own time-based seed.
func NewPlanner() *Planner {
	return NewPlannerWithSeed(time.Now().UnixNano())
}

// NewPlannerWithSeed constructs a Planner whose shuffles are reproducible
func NewPlannerWithSeed(seed int64) *Planner {
	return &Planner{rng: rand.New(rand.NewSource(seed))}
}

// Plan assigns roster members to slots and up to benchSize bench entries.
// Slots are filled goalkeeper, defender, midfielder, forward: first from the
// slot's own category, then from unclassified members, then from whatever other
// members are left, and finally with placeholders. Leftover members fill the
// bench; the bench is padded with placeholders to benchSize.
func (p *Planner) Plan(roster []models.RosterMember, slots []models.PositionSlot, benchSize int) Plan {
	if benchSize < 0 {
		benchSize = 0
	}
	pools := make(map[Category][]models.RosterMember)
	seen := make(map[string]bool, len(roster))
	for _, m := range roster {
		if m.ID == "" || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		cat := CategoryOf(m.PreferredPositionCode)
		pools[cat] = append(pools[cat], m)
	}

	p.mu.Lock()
	for _, cat := range allCategories {
		pool := pools[cat]
		p.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}
	p.mu.Unlock()

	pop := func(cat Category) (models.RosterMember, bool) {
		pool := pools[cat]
		if len(pool) == 0 {
			return models.RosterMember{}, false
		}
		m := pool[0]
		pools[cat] = pool[1:]
		return m, true
	}

	bySlotCategory := make(map[Category][]int)
	for i, slot := range slots {
		cat := CategoryOf(slot.Label)
		bySlotCategory[cat] = append(bySlotCategory[cat], i)
	}

	assigned := make([]*models.RosterMember, len(slots))
	for _, cat := range allCategories {
		for _, i := range bySlotCategory[cat] {
			m, ok := pop(cat)
			if !ok {
				m, ok = pop(CategoryUnclassified)
			}
			if ok {
				assigned[i] = &m
			}
		}
	}

	for i := range slots {
		if assigned[i] != nil {
			continue
		}
		for _, cat := range plannedCategories {
			if m, ok := pop(cat); ok {
				assigned[i] = &m
				break
			}
		}
	}

	var leftovers []models.RosterMember
	for _, cat := range allCategories {
		leftovers = append(leftovers, pools[cat]...)
	}

	plan := Plan{}
	var benchMembers []models.RosterMember
	if len(leftovers) > benchSize {
		benchMembers = leftovers[:benchSize]
		plan.Unassigned = leftovers[benchSize:]
	} else {
		benchMembers = leftovers
	}

	alloc := newJerseyAllocator(nil, nil)
	for _, m := range assigned {
		if m != nil && m.JerseyNumber != nil {
			alloc.reserve(*m.JerseyNumber)
		}
	}
	for _, m := range benchMembers {
		if m.JerseyNumber != nil {
			alloc.reserve(*m.JerseyNumber)
		}
	}

	plan.Starters = make([]models.StarterAssignment, len(slots))
	for i, slot := range slots {
		if m := assigned[i]; m != nil {
			plan.Starters[i] = memberOccupant(*m).starterAt(slot)
		} else {
			plan.Starters[i] = placeholderOccupant(alloc.next()).starterAt(slot)
		}
	}

	plan.Bench = make([]models.BenchAssignment, 0, benchSize)
	for _, m := range benchMembers {
		plan.Bench = append(plan.Bench, memberOccupant(m).benchEntry())
	}
	for len(plan.Bench) < benchSize {
		plan.Bench = append(plan.Bench, placeholderOccupant(alloc.next()).benchEntry())
	}
	return plan
}

// ApplyPlan replaces starters and bench with a planner result
func (s *Store) ApplyPlan(plan Plan) {
	s.starters = make([]models.StarterAssignment, 0, len(plan.Starters))
	for _, st := range plan.Starters {
		if slot, ok := s.slot(st.PositionID); ok {
			s.starters = append(s.starters, starterOccupant(st).starterAt(slot))
		}
	}
	s.bench = append([]models.BenchAssignment(nil), plan.Bench...)
	s.sortStarters()
	s.checkInvariants("apply_plan")
}
