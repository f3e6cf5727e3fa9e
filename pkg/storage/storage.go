// Package storage provides an interface for descpub data storage
// implementations.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotExist indicates that a record does not exist
var ErrNotExist = errors.New("does not exist")

// ErrExists indicates that the database or a record already exist.
var ErrExists = errors.New("already exists")

// Description is a project description that was set by a build.
type Description struct {
	ProjectName string
	BuildNumber int
	BuildID     string
	BuildResult string
	Content     string
	CreatedAt   time.Time
}

// DescriptionWithID is a stored Description.
type DescriptionWithID struct {
	ID int
	Description
}

const (
	NoLimit uint = 0
)

// Storer is an interface for storing and retrieving project descriptions
// and build numbers.
type Storer interface {
	Close() error

	// IsCompatible verifies that the storage is compatible with the
	// descpub version.
	IsCompatible(context.Context) error
	// Init initializes a storage, e.g. creating the database scheme.
	// If it already exist, ErrExists is returned.
	Init(context.Context) error

	// NextBuildNumber increments the build counter of a project and
	// returns the new value. The first build of a project has number 1.
	NextBuildNumber(ctx context.Context, projectName string) (int, error)

	SaveDescription(context.Context, *Description) (id int, err error)
	// LatestDescription returns the most recently saved description of
	// a project. If none exists, ErrNotExist is returned.
	LatestDescription(ctx context.Context, projectName string) (*DescriptionWithID, error)
	// Descriptions returns the descriptions of a project, newest first.
	// A limit value of 0 returns all records.
	// When no records exist, ErrNotExist is returned.
	Descriptions(ctx context.Context, projectName string, limit uint) ([]*DescriptionWithID, error)
}
