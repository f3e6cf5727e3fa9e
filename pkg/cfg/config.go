// Package cfg reads, validates and writes the descpub configuration file.
package cfg

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/simplesurance/descpub/pkg/cfg/resolver"
)

const (
	// FileName is the name of the configuration file.
	FileName = ".descpub.toml"
	// Version identifies the format of the configuration files that the
	// package can parse. Whenever an incompatible change is made, the
	// Version number is increased.
	Version int = 1
)

// Workspace types
const (
	WorkspaceLocal  = "local"
	WorkspaceS3     = "s3"
	WorkspaceDocker = "docker"
)

// Config is the descpub configuration.
type Config struct {
	ConfigVersion int `toml:"config_version" comment:"Internal field, version of descpub configuration format"`

	Publisher Publisher `toml:"Publisher"`
	Job       Job       `toml:"Job"`
	Workspace Workspace `toml:"Workspace"`
	Storage   Storage   `toml:"Storage"`
	Sink      Sink      `toml:"Sink"`

	filePath string
}

// Publisher configures how the description is read.
type Publisher struct {
	Charset         string `toml:"charset" comment:"Encoding of the description file, defaults to UTF-8"`
	DescriptionFile string `toml:"description_file" comment:"Path of the description file, relative to the workspace.\n Macro references like ${BUILD_NUMBER} are expanded.\n If empty, no description is set."`
	DisableTokens   bool   `toml:"disable_tokens" comment:"Use the content of the description file verbatim, without expanding macro references"`
}

// Job describes the build that is executed by the run command.
type Job struct {
	Name        string            `toml:"name" comment:"Name of the project"`
	Steps       [][]string        `toml:"steps" comment:"Commands that are run in the workspace, in order"`
	Environment map[string]string `toml:"environment" comment:"Environment variables that are set for the steps"`
	Matrix      Matrix            `toml:"Matrix"`
}

// Matrix turns the job into a matrix job if axes are defined.
type Matrix struct {
	Parallelism uint     `toml:"parallelism" comment:"Max. number of matrix combinations that are built in parallel"`
	Exclude     []string `toml:"exclude" comment:"Glob patterns matching combinations that are not built, combinations have the format axis1=value1,axis2=value2"`
	Axis        []Axis   `toml:"Axis"`
}

// Axis is a matrix dimension.
type Axis struct {
	Name   string   `toml:"name"`
	Values []string `toml:"values"`
}

// Workspace describes where the files of a build are.
type Workspace struct {
	Type      string `toml:"type" comment:"One of: local, s3, docker"`
	Path      string `toml:"path" comment:"local: directory of the workspace, relative to the config file directory\n docker: workspace directory in the container"`
	URL       string `toml:"url" comment:"s3: URL of the workspace, format: s3://<bucket>/<prefix>"`
	Container string `toml:"container" comment:"docker: name or ID of the container"`
}

// Storage contains database configuration
type Storage struct {
	PGSQLURL string `toml:"postgresql_url" comment:"PostgreSQL database connection string (https://www.postgresql.org/docs/current/static/libpq-connect.html#LIBPQ-CONNSTRING)\n If set, build numbers and descriptions are stored in the database.\n The setting is overwritten by the environment variable DESCPUB_POSTGRESQL_URL."`
}

// Sink configures additional destinations for descriptions.
type Sink struct {
	S3URL string `toml:"s3_url" comment:"Upload descriptions to <s3_url>/<project>/description.txt, format: s3://<bucket>/<prefix>"`
	Dir   string `toml:"dir" comment:"Write descriptions to <dir>/<project>/description.txt, relative to the config file directory"`
}

// FromFile reads the configuration from a file.
// Unknown keys are reported as error.
func FromFile(cfgPath string) (*Config, error) {
	var config Config

	content, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, err
	}

	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&config); err != nil {
		var decErr *toml.DecodeError
		if errors.As(err, &decErr) {
			row, col := decErr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %w", cfgPath, row, col, err)
		}

		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, fmt.Errorf("%s: %s", cfgPath, strictErr.String())
		}

		return nil, fmt.Errorf("%s: %w", cfgPath, err)
	}

	config.filePath = cfgPath

	return &config, nil
}

// Example returns an exemplary configuration for a project.
func Example(name string) *Config {
	return &Config{
		ConfigVersion: Version,
		Publisher: Publisher{
			Charset:         "UTF-8",
			DescriptionFile: "description-${BUILD_NUMBER}.txt",
		},
		Job: Job{
			Name: name,
			Steps: [][]string{
				{"sh", "-c", `echo "Build ${BUILD_NUMBER} of ${JOB_NAME}: \${BUILD_RESULT}" > description-${BUILD_NUMBER}.txt`},
			},
			Environment: map[string]string{},
		},
		Workspace: Workspace{
			Type: WorkspaceLocal,
			Path: ".",
		},
		Storage: Storage{
			PGSQLURL: "postgres://postgres@localhost:5432/descpub?sslmode=disable&connect_timeout=5",
		},
	}
}

// FilePath returns the path of the file the configuration was read from.
func (c *Config) FilePath() string {
	return c.filePath
}

// Dir returns the directory of the configuration file.
func (c *Config) Dir() string {
	return filepath.Dir(c.filePath)
}

// IsMatrix returns true if matrix axes are configured.
func (c *Config) IsMatrix() bool {
	return len(c.Job.Matrix.Axis) > 0
}

// Resolve replaces variables in the string values of the configuration
// with the resolvers. description_file is not resolved, macro references
// in it are expanded per build.
func (c *Config) Resolve(r resolver.Resolver) error {
	for i, step := range c.Job.Steps {
		for j, arg := range step {
			var err error

			if c.Job.Steps[i][j], err = r.Resolve(arg); err != nil {
				return fieldErrorWrap(err, "Job", "steps", fmt.Sprintf("[%d][%d]", i, j))
			}
		}
	}

	for k, v := range c.Job.Environment {
		resolved, err := r.Resolve(v)
		if err != nil {
			return fieldErrorWrap(err, "Job", "environment", k)
		}

		c.Job.Environment[k] = resolved
	}

	fields := []struct {
		ptr  *string
		path []string
	}{
		{&c.Workspace.Path, []string{"Workspace", "path"}},
		{&c.Workspace.URL, []string{"Workspace", "url"}},
		{&c.Workspace.Container, []string{"Workspace", "container"}},
		{&c.Storage.PGSQLURL, []string{"Storage", "postgresql_url"}},
		{&c.Sink.S3URL, []string{"Sink", "s3_url"}},
		{&c.Sink.Dir, []string{"Sink", "dir"}},
	}

	for _, f := range fields {
		resolved, err := r.Resolve(*f.ptr)
		if err != nil {
			return fieldErrorWrap(err, f.path...)
		}

		*f.ptr = resolved
	}

	return nil
}

// DefaultResolvers returns the resolvers that are applied to configuration
// files: $ROOT and {{ .root }} are replaced with the directory of the
// configuration file, {{ env "NAME" }}, {{ uuid }} and {{ gitcommit }} are
// available.
func (c *Config) DefaultResolvers(gitCommitFn func() (string, error)) resolver.Resolver {
	return resolver.List{
		&resolver.StrReplacement{Old: "$ROOT", New: c.Dir()},
		resolver.NewGoTemplate(c.Dir(), gitCommitFn),
	}
}

// WorkspaceDir returns the directory of a local workspace.
func (c *Config) WorkspaceDir() string {
	return c.path(c.Workspace.Path)
}

// SinkDir returns the directory of the file sink, if none is configured
// an empty string is returned.
func (c *Config) SinkDir() string {
	if c.Sink.Dir == "" {
		return ""
	}

	return c.path(c.Sink.Dir)
}

// path returns p relative to the directory of the configuration file.
func (c *Config) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(c.Dir(), p)
}

func (c *Config) String() string {
	var sb strings.Builder

	enc := toml.NewEncoder(&sb)
	enc.SetIndentTables(true)

	if err := enc.Encode(c); err != nil {
		return fmt.Sprintf("encoding config failed: %s", err)
	}

	return sb.String()
}
