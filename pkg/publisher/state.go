package publisher

import "github.com/simplesurance/descpub/pkg/build"

// State is the position of a build in the publishing lifecycle.
type State int

const (
	StateIdle State = iota
	// StateAwaitingTeardown is the state of standalone builds until the
	// build-end hook ran.
	StateAwaitingTeardown
	// StateAwaitingAggregateCompletion is the state of matrix aggregates
	// until all member runs finished.
	StateAwaitingAggregateCompletion
	StateSkipped
	StatePublished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingTeardown:
		return "awaiting teardown"
	case StateAwaitingAggregateCompletion:
		return "awaiting aggregate completion"
	case StateSkipped:
		return "skipped"
	case StatePublished:
		return "published"
	case StateFailed:
		return "failed"
	default:
		return "undefined"
	}
}

// MarshalText encodes s as its name, outcomes are logged as JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal returns true if no further transitions happen from s.
func (s State) Terminal() bool {
	return s == StateSkipped || s == StatePublished || s == StateFailed
}

// PendingState returns the state a running build is in before the
// publisher acted on it.
// Member runs of matrix builds stay idle, they are never published.
func PendingState(b *build.Build) State {
	switch {
	case b.IsMatrixRun():
		return StateIdle
	case b.IsMatrixAggregate():
		return StateAwaitingAggregateCompletion
	default:
		return StateAwaitingTeardown
	}
}

// Outcome describes what a publish attempt did.
type Outcome struct {
	State State `json:"state"`
	// Path is the description file path after token expansion, it is
	// empty if no path was configured or expanding it failed.
	Path string `json:"path,omitempty"`
	// Reason describes why publishing was skipped.
	Reason string `json:"reason,omitempty"`
	// Description is the published description.
	Description string `json:"description,omitempty"`
}

func skipped(path, reason string) *Outcome {
	return &Outcome{State: StateSkipped, Path: path, Reason: reason}
}

func failed(path string) *Outcome {
	return &Outcome{State: StateFailed, Path: path}
}
