// Package tokenmacro expands macro references in text.
//
// References have the forms $NAME, ${NAME} and ${NAME,arg="value",n=3}.
// "$$" expands to a single "$". A name is looked up in the registered
// macros first, then in the environment variables of the build.
package tokenmacro

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/simplesurance/descpub/pkg/build"
)

// Args are the arguments passed to a macro.
type Args map[string]string

// Get returns the value of the argument, def if it is not set.
func (a Args) Get(name, def string) string {
	if v, exists := a[name]; exists {
		return v
	}

	return def
}

// Int returns the value of the argument as int, def if it is not set.
func (a Args) Int(name string, def int) (int, error) {
	v, exists := a[name]
	if !exists {
		return def, nil
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("argument %s: %q is not an integer", name, v)
	}

	return i, nil
}

// Bool returns the value of the argument as bool, def if it is not set.
func (a Args) Bool(name string, def bool) (bool, error) {
	v, exists := a[name]
	if !exists {
		return def, nil
	}

	bv, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("argument %s: %q is not a boolean", name, v)
	}

	return bv, nil
}

// Required returns the value of the argument or an error if it is not set.
func (a Args) Required(name string) (string, error) {
	v, exists := a[name]
	if !exists {
		return "", fmt.Errorf("argument %s is required", name)
	}

	return v, nil
}

// EvalFn returns the value of a macro for a build.
type EvalFn func(ctx context.Context, b *build.Build, args Args) (string, error)

type macro struct {
	eval        EvalFn
	description string
}

var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Registry holds macros by name.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	macros map[string]*macro
}

// NewRegistry returns a registry without macros.
func NewRegistry() *Registry {
	return &Registry{macros: map[string]*macro{}}
}

// Default returns a new registry containing the builtin macros.
func Default() *Registry {
	r := NewRegistry()

	for _, m := range builtins {
		if err := r.Register(m.name, m.description, m.eval); err != nil {
			panic(fmt.Sprintf("registering builtin macro %s failed: %s", m.name, err))
		}
	}

	return r
}

// Register adds a macro.
// Registering a name that is already registered is an error.
func (r *Registry) Register(name, description string, fn EvalFn) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("invalid macro name %q", name)
	}

	if fn == nil {
		return errors.New("eval function is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.macros[name]; exists {
		return fmt.Errorf("macro %s is already registered", name)
	}

	r.macros[name] = &macro{eval: fn, description: description}

	return nil
}

// Names returns the names of the registered macros, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := maps.Keys(r.macros)
	sort.Strings(names)

	return names
}

// Description returns the description of a registered macro.
func (r *Registry) Description(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.macros[name]
	if !exists {
		return "", false
	}

	return m.description, true
}

func (r *Registry) lookup(name string) *macro {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.macros[name]
}

// Expand replaces all macro references in tmpl.
// All errors are returned as *ExpansionError.
func (r *Registry) Expand(ctx context.Context, b *build.Build, tmpl string) (string, error) {
	segments, err := parse(tmpl)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(tmpl))

	for i := range segments {
		seg := &segments[i]

		if !seg.isMacro() {
			sb.WriteString(seg.literal)
			continue
		}

		if err := ctx.Err(); err != nil {
			return "", &ExpansionError{Macro: seg.macro, Offset: seg.offset, Err: err}
		}

		val, err := r.eval(ctx, b, seg)
		if err != nil {
			return "", &ExpansionError{Macro: seg.macro, Offset: seg.offset, Err: err}
		}

		sb.WriteString(val)
	}

	return sb.String(), nil
}

func (r *Registry) eval(ctx context.Context, b *build.Build, seg *segment) (string, error) {
	if m := r.lookup(seg.macro); m != nil {
		return m.eval(ctx, b, seg.args)
	}

	if b != nil && len(seg.args) == 0 {
		if v, exists := b.LookupEnv(seg.macro); exists {
			return v, nil
		}
	}

	return "", ErrUnrecognizedMacro
}
