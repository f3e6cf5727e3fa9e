package cfg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/simplesurance/descpub/internal/charset"
	"github.com/simplesurance/descpub/internal/fs"
	"github.com/simplesurance/descpub/internal/s3"
	"github.com/simplesurance/descpub/internal/validation"
)

// forbiddenNameRunes are used as separators in build names and matrix
// combination strings.
const forbiddenNameRunes = "=,/#*"

// Validate sets defaults for unset optional fields and validates the
// configuration.
func (c *Config) Validate() error {
	if c.ConfigVersion != Version {
		return newFieldError(
			fmt.Sprintf("unsupported configuration version %d, expected %d", c.ConfigVersion, Version),
			"config_version",
		)
	}

	if err := c.Publisher.validate(); err != nil {
		return fieldErrorWrap(err, "Publisher")
	}

	if err := c.Job.validate(); err != nil {
		return fieldErrorWrap(err, "Job")
	}

	if err := c.Workspace.validate(); err != nil {
		return fieldErrorWrap(err, "Workspace")
	}

	if c.Sink.S3URL != "" {
		if _, _, err := s3.ParseURL(c.Sink.S3URL); err != nil {
			return fieldErrorWrap(err, "Sink", "s3_url")
		}
	}

	return nil
}

func (p *Publisher) validate() error {
	if strings.TrimSpace(p.Charset) == "" {
		p.Charset = charset.Default
	}

	if _, err := charset.Lookup(p.Charset); err != nil {
		return fieldErrorWrap(err, "charset")
	}

	return nil
}

func (j *Job) validate() error {
	if err := validation.Name(j.Name, forbiddenNameRunes); err != nil {
		return fieldErrorWrap(err, "name")
	}

	for i, step := range j.Steps {
		if len(step) == 0 || strings.TrimSpace(step[0]) == "" {
			return newFieldError("command is empty", "steps", fmt.Sprintf("[%d]", i))
		}
	}

	for k := range j.Environment {
		if k == "" || strings.ContainsRune(k, '=') {
			return newFieldError(fmt.Sprintf("invalid variable name %q", k), "environment")
		}
	}

	if err := j.Matrix.validate(); err != nil {
		return fieldErrorWrap(err, "Matrix")
	}

	return nil
}

func (m *Matrix) validate() error {
	if len(m.Axis) == 0 {
		if len(m.Exclude) > 0 {
			return newFieldError("is set but no axes are defined", "exclude")
		}

		return nil
	}

	seen := make(map[string]struct{}, len(m.Axis))
	for i, a := range m.Axis {
		if err := validation.Name(a.Name, forbiddenNameRunes); err != nil {
			return fieldErrorWrap(err, "Axis", fmt.Sprintf("[%d]", i), "name")
		}

		if _, exists := seen[a.Name]; exists {
			return newFieldError(fmt.Sprintf("axis %q is defined multiple times", a.Name), "Axis", fmt.Sprintf("[%d]", i), "name")
		}
		seen[a.Name] = struct{}{}

		if len(a.Values) == 0 {
			return newFieldError("can not be empty", "Axis", fmt.Sprintf("[%d]", i), "values")
		}

		for _, v := range a.Values {
			if err := validation.Name(v, forbiddenNameRunes); err != nil {
				return fieldErrorWrap(fmt.Errorf("value %q: %w", v, err), "Axis", fmt.Sprintf("[%d]", i), "values")
			}
		}
	}

	for _, pattern := range m.Exclude {
		if err := fs.ValidGlob(pattern); err != nil {
			return fieldErrorWrap(err, "exclude")
		}
	}

	return nil
}

func (w *Workspace) validate() error {
	if w.Type == "" {
		w.Type = WorkspaceLocal
	}

	switch w.Type {
	case WorkspaceLocal:
		if w.Path == "" {
			w.Path = "."
		}

	case WorkspaceS3:
		if w.URL == "" {
			return newFieldError("can not be empty when type is s3", "url")
		}

		if _, _, err := s3.ParseURL(w.URL); err != nil {
			return fieldErrorWrap(err, "url")
		}

	case WorkspaceDocker:
		if w.Container == "" {
			return newFieldError("can not be empty when type is docker", "container")
		}

		if w.Path == "" {
			return newFieldError("can not be empty when type is docker", "path")
		}

	default:
		return fieldErrorWrap(
			errors.New("must be one of: "+strings.Join([]string{WorkspaceLocal, WorkspaceS3, WorkspaceDocker}, ", ")),
			"type",
		)
	}

	return nil
}
