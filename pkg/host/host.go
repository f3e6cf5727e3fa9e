// Package host provides the default implementation of the services the
// description publisher needs from the build host.
package host

import (
	"context"
	"fmt"

	"github.com/simplesurance/descpub/internal/log"
	"github.com/simplesurance/descpub/pkg/build"
	"github.com/simplesurance/descpub/pkg/tokenmacro"
)

// Sink receives descriptions that were set for a project.
type Sink interface {
	Store(ctx context.Context, b *build.Build, desc string) error
	String() string
}

// Host expands tokens with a macro registry and sets descriptions on the
// build's project and in additional sinks.
type Host struct {
	tokens *tokenmacro.Registry
	sinks  []Sink
}

// New returns a Host. If tokens is nil, the builtin macros are used.
func New(tokens *tokenmacro.Registry, sinks ...Sink) *Host {
	if tokens == nil {
		tokens = tokenmacro.Default()
	}

	return &Host{tokens: tokens, sinks: sinks}
}

// ExpandTokens replaces macro references in tmpl.
func (h *Host) ExpandTokens(ctx context.Context, b *build.Build, tmpl string) (string, error) {
	return h.tokens.Expand(ctx, b, tmpl)
}

// SetDescription passes desc to the sinks in order and afterwards sets it
// as description of the project of b.
// The first failing sink aborts the operation, the project description is
// then not changed.
func (h *Host) SetDescription(ctx context.Context, b *build.Build, desc string) error {
	for _, sink := range h.sinks {
		if err := sink.Store(ctx, b, desc); err != nil {
			return fmt.Errorf("storing description in %s failed: %w", sink, err)
		}
	}

	b.Project.SetDescription(desc)
	log.Debugf("%s: description of project %q set", b, b.Project.Name())

	return nil
}
