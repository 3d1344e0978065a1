package formation

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/stretchr/testify/require"
)

// TestRandomMutationsKeepInvariants drives a store through random drag
// operations and checks the invariants after every step.
func TestRandomMutationsKeepInvariants(t *testing.T) {
	names := preset.Names()
	for seed := int64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed_%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			s := newFullStore(t, "4-3-3", 16)

			ids := func() []string {
				var out []string
				for _, st := range s.Starters() {
					out = append(out, st.ID)
				}
				for _, b := range s.Bench() {
					out = append(out, b.ID)
				}
				return out
			}

			for step := 0; step < 200; step++ {
				all := ids()
				id := all[rng.Intn(len(all))]
				slots := s.Slots()

				var op string
				switch rng.Intn(6) {
				case 0:
					op = "move_to_position"
					_, _ = s.MovePlayerToPosition(id, slots[rng.Intn(len(slots))].ID, false, "", NoBenchIndex)
				case 1:
					op = "move_to_sub_slot"
					_, _ = s.MovePlayerToSubSlot(id, rng.Intn(len(s.Bench())+2), false, "", NoBenchIndex)
				case 2:
					op = "swap"
					_, _ = s.SwapPlayersInFormation(id, all[rng.Intn(len(all))])
				case 3:
					op = "move_to_subs"
					_, _ = s.MoveStarterToSubsGeneral(id, "")
				case 4:
					op = "change_preset"
					_, _ = s.ChangePreset(names[rng.Intn(len(names))])
				default:
					op = "fill_open_slots"
					s.FillOpenSlots()
				}

				require.NoError(t, s.Validate(), "step %d op %s", step, op)
				require.LessOrEqual(t, len(s.Starters()), len(s.Slots()))
			}
		})
	}
}
