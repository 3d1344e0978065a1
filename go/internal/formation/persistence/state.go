package persistence

import (
	"github.com/mcdev12/lineup/go/internal/models"
)

// LoadState is the position of one team in the load state machine:
// Idle -> Loading -> {Loaded | Bootstrapping -> Loaded | Failed}
type LoadState string

const (
	StateIdle          LoadState = "IDLE"
	StateLoading       LoadState = "LOADING"
	StateBootstrapping LoadState = "BOOTSTRAPPING"
	StateLoaded        LoadState = "LOADED"
	StateFailed        LoadState = "FAILED"
)

// LoadSource tells where a loaded document came from
type LoadSource string

const (
	// SourceRemote is a stored formation
	SourceRemote LoadSource = "REMOTE"
	// SourceBootstrapped is a default the server just created and stored
	SourceBootstrapped LoadSource = "BOOTSTRAPPED"
	// SourceTemplate is a default the server returned without storing it
	SourceTemplate LoadSource = "TEMPLATE"
)

// LoadResult is a successfully loaded formation
type LoadResult struct {
	Document models.FormationDocument
	Source   LoadSource
}

// NeedsSave reports whether the loaded document is not persisted yet
func (r *LoadResult) NeedsSave() bool {
	return r.Source == SourceTemplate
}

var validTransitions = map[LoadState][]LoadState{
	StateIdle:          {StateLoading},
	StateLoading:       {StateLoaded, StateBootstrapping, StateFailed},
	StateBootstrapping: {StateLoaded, StateFailed},
	StateLoaded:        {StateLoading},
	StateFailed:        {StateLoading},
}

func canTransition(from, to LoadState) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
