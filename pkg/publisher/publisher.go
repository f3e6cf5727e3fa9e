// Package publisher sets the description of a project from a file in the
// workspace of a finished build.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/simplesurance/descpub/internal/charset"
	"github.com/simplesurance/descpub/internal/log"
	"github.com/simplesurance/descpub/pkg/build"
	"github.com/simplesurance/descpub/pkg/workspace"
)

const (
	reasonNoFile       = "no description file configured"
	reasonNoWorkspace  = "no workspace available"
	reasonFileNotFound = "description file not found"
	reasonMatrixRun    = "matrix member run"
	msgNoWorkspace     = "no workspace available, not setting the description"
	msgFileNotFound    = "description file not found: %s"
	msgSettingDesc     = "setting description from %s"
)

// Host provides the services of the build host that the publisher uses.
type Host interface {
	// ExpandTokens replaces macro references in tmpl.
	ExpandTokens(ctx context.Context, b *build.Build, tmpl string) (string, error)
	// SetDescription sets the description of the project of b.
	SetDescription(ctx context.Context, b *build.Build, desc string) error
}

// Config configures a Publisher.
type Config struct {
	// Charset is the name of the encoding of the description file.
	// If it is empty, UTF-8 is used.
	Charset string
	// DescriptionFile is the path of the description file, relative to
	// the workspace. It can contain macro references. If it is blank,
	// nothing is published.
	DescriptionFile string
	// DisableTokens prevents expanding macro references in the file
	// content. References in DescriptionFile are always expanded.
	DisableTokens bool
}

// Publisher reads a description file from the workspace of a build and
// sets it as project description.
// It is safe for concurrent use, it does not keep state between builds.
type Publisher struct {
	cfg     Config
	charset *charset.Charset
	host    Host
}

// New returns a Publisher.
// If the charset can not be resolved a *ConfigurationError is returned.
func New(cfg Config, host Host) (*Publisher, error) {
	if host == nil {
		return nil, &ConfigurationError{Field: "host", Err: errors.New("is nil")}
	}

	name := cfg.Charset
	if strings.TrimSpace(name) == "" {
		name = charset.Default
	}

	cs, err := charset.Lookup(name)
	if err != nil {
		return nil, &ConfigurationError{Field: "charset", Value: cfg.Charset, Err: err}
	}

	return &Publisher{
		cfg:     cfg,
		charset: cs,
		host:    host,
	}, nil
}

// Config returns the configuration the Publisher was created with.
func (p *Publisher) Config() Config {
	return p.cfg
}

// Charset returns the canonical name of the configured encoding.
func (p *Publisher) Charset() string {
	return p.charset.Name()
}

// Publish reads the description file from the workspace of b and passes
// its content to the host's SetDescription.
//
// Publishing is skipped without an error when no description file is
// configured, the build has no workspace or the file does not exist.
// Errors are returned as *IOError, *ExpansionError or the error of the
// host's SetDescription.
func (p *Publisher) Publish(ctx context.Context, b *build.Build) (*Outcome, error) {
	relPath := strings.TrimSpace(p.cfg.DescriptionFile)
	if relPath == "" {
		log.Debugf("%s: %s, not setting the description", b, reasonNoFile)
		return skipped("", reasonNoFile), nil
	}

	path, err := p.host.ExpandTokens(ctx, b, relPath)
	if err != nil {
		return failed(""), &ExpansionError{Target: "path", Err: err}
	}

	if b.Workspace == nil {
		b.Console.Println(msgNoWorkspace)
		return skipped(path, reasonNoWorkspace), nil
	}

	exists, err := b.Workspace.Exists(ctx, path)
	if err != nil {
		return failed(path), &IOError{Op: "checking existence of", Path: path, Err: err}
	}

	if !exists {
		b.Console.Printf(msgFileNotFound, path)
		return skipped(path, reasonFileNotFound), nil
	}

	content, err := p.read(ctx, b.Workspace, path)
	if err != nil {
		return failed(path), err
	}

	desc := content
	if !p.cfg.DisableTokens {
		desc, err = p.host.ExpandTokens(ctx, b, content)
		if err != nil {
			return failed(path), &ExpansionError{Target: "content", Err: err}
		}
	}

	b.Console.Printf(msgSettingDesc, path)

	if err := p.host.SetDescription(ctx, b, desc); err != nil {
		return failed(path), fmt.Errorf("setting description failed: %w", err)
	}

	return &Outcome{State: StatePublished, Path: path, Description: desc}, nil
}

func (p *Publisher) read(ctx context.Context, ws workspace.Workspace, path string) (string, error) {
	rc, err := ws.Open(ctx, path)
	if err != nil {
		return "", &IOError{Op: "opening", Path: path, Err: err}
	}
	defer rc.Close()

	content, err := p.charset.DecodeAll(rc)
	if err != nil {
		return "", &IOError{Op: "reading", Path: path, Err: err}
	}

	return content, nil
}

// BuildEnd is the handler for the end of a standalone build or a matrix
// member run. Member runs are skipped, their description is published when
// the matrix build completes.
func (p *Publisher) BuildEnd(ctx context.Context, b *build.Build) (*Outcome, error) {
	if b.IsMatrixRun() {
		log.Debugf("%s: %s, description is set when the matrix build completed", b, reasonMatrixRun)
		return skipped("", reasonMatrixRun), nil
	}

	return p.Publish(ctx, b)
}

// AggregateEnd is the handler for the completion of a matrix build.
func (p *Publisher) AggregateEnd(ctx context.Context, b *build.Build) (*Outcome, error) {
	return p.Publish(ctx, b)
}

// Attach registers the publisher as build-end and aggregate-end hook.
func (p *Publisher) Attach(hooks *build.Hooks) {
	hooks.OnBuildEnd(func(ctx context.Context, b *build.Build) error {
		return logOutcome(b)(p.BuildEnd(ctx, b))
	})

	hooks.OnAggregateEnd(func(ctx context.Context, b *build.Build) error {
		return logOutcome(b)(p.AggregateEnd(ctx, b))
	})
}

func logOutcome(b *build.Build) func(*Outcome, error) error {
	return func(o *Outcome, err error) error {
		if log.DebugEnabled() {
			log.Debugf("%s: description publisher: %s -> %s", b, PendingState(b), o.State)
		}

		return err
	}
}
