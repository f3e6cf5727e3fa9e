//go:build dbtest

package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simplesurance/descpub/pkg/storage"
)

func TestIsCompatible_AfterInit(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.Init(ctx))
	require.NoError(t, client.IsCompatible(ctx))
}

func TestInit_SchemaExists(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.Init(ctx))
	require.ErrorIs(t, client.Init(ctx), storage.ErrExists)
}

func TestIsCompatible_SchemaNotExist(t *testing.T) {
	client := newTestClient(t)

	err := client.IsCompatible(ctx)
	require.ErrorIs(t, err, storage.ErrNotExist)
}

func TestIsCompatible_SchemaVersionDoesNotMatch(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.Init(ctx))

	_, err := client.db.Exec(ctx, "UPDATE migrations set schema_version = 100")
	require.NoError(t, err)

	err = client.IsCompatible(ctx)
	require.ErrorContains(t, err, "database schema version is not compatible")
}
