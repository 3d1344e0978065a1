package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/lineup/go/internal/dbconfig"
	"github.com/mcdev12/lineup/go/internal/formation"
	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/mcdev12/lineup/go/internal/models"
)

// TeamSeed is one entry of the seed snapshot
type TeamSeed struct {
	TeamID string                `json:"team_id"`
	Preset string                `json:"preset"`
	Seed   int64                 `json:"seed"`
	Roster []models.RosterMember `json:"roster"`
}

// buildSchema plans the roster onto the preset, or fills it with
// placeholders when the team has no roster yet.
func buildSchema(catalog *preset.Catalog, t TeamSeed) (models.FormationSchema, error) {
	store := formation.NewStore(catalog, catalog.BenchSize())
	if t.Preset != "" {
		if _, err := store.ChangePreset(t.Preset); err != nil {
			return models.FormationSchema{}, err
		}
	}

	if len(t.Roster) == 0 {
		store.SetDummyPlayers()
	} else {
		plan := formation.NewPlannerWithSeed(t.Seed).Plan(t.Roster, store.Slots(), store.BenchSize())
		store.ApplyPlan(plan)
	}
	return store.Schema(), nil
}

func main() {
	path := "go/internal/assets/formations.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the JSON snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var teams []TeamSeed
	if err := json.Unmarshal(data, &teams); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	ctx := context.Background()
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Insert and count; existing formations are never overwritten
	catalog := preset.Default()
	var (
		total    = len(teams)
		inserted int
		skipped  int
		errs     int
	)

	for _, t := range teams {
		teamID, err := uuid.Parse(t.TeamID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid team id %q: %v\n", t.TeamID, err)
			errs++
			continue
		}
		schema, err := buildSchema(catalog, t)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error building formation for %s: %v\n", teamID, err)
			errs++
			continue
		}
		payload, err := json.Marshal(schema)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error encoding formation for %s: %v\n", teamID, err)
			errs++
			continue
		}

		cmdTag, err := pool.Exec(ctx, `
            INSERT INTO formations (team_id, schema_json, created_at, updated_at)
            VALUES ($1, $2, $3, $3)
            ON CONFLICT (team_id) DO NOTHING
        `, teamID, payload, time.Now().UTC())
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting formation %s: %v\n", teamID, err)
			errs++
			continue
		}
		if cmdTag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}

	// 4) Print summary
	fmt.Printf(
		"Formations seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		total, inserted, skipped, errs,
	)
}
