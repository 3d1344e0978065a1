package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/mcdev12/lineup/go/internal/models"
)

func printState(w io.Writer, state models.FormationState, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	fmt.Fprintf(w, "team %s  preset %s", state.TeamID, state.PresetName)
	if state.Dirty {
		fmt.Fprint(w, "  (unsaved)")
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tNO\tNAME\tID")
	for _, st := range state.Starters {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", st.Label, st.JerseyNumber, st.DisplayName, occupantID(st.MemberID, st.ID))
	}
	for i, b := range state.Bench {
		fmt.Fprintf(tw, "SUB %d\t%d\t%s\t%s\n", i, b.JerseyNumber, b.DisplayName, occupantID(b.MemberID, b.ID))
	}
	return tw.Flush()
}

func occupantID(memberID *string, assignmentID string) string {
	if memberID != nil {
		return *memberID
	}
	return assignmentID
}

func printPresets(w io.Writer) error {
	catalog := preset.Default()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRESET\tSLOTS\tDEFAULT")
	for _, name := range catalog.Names() {
		slots, err := catalog.SlotsFor(name)
		if err != nil {
			return err
		}
		def := ""
		if name == catalog.DefaultPreset() {
			def = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", name, len(slots), def)
	}
	return tw.Flush()
}
