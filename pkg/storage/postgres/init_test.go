//go:build dbtest

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/descpub/internal/testutils/dbtest"
)

var ctx = context.Background()

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

// newTestClient returns a client that runs all statements in a
// transaction, the transaction is rolled back when the test finished.
func newTestClient(t *testing.T) *Client {
	t.Helper()

	con, err := pgxpool.Connect(ctx, dbtest.PSQLURL())
	require.NoError(t, err)

	tx, err := con.Begin(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, tx.Rollback(ctx))
		con.Close()
	})

	return &Client{
		db:   tx,
		pool: con,
	}
}

func TestNewSetsApplicationName(t *testing.T) {
	clt, err := New(ctx, dbtest.PSQLURL(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clt.Close() })

	var name string
	require.NoError(t, clt.db.QueryRow(ctx, "SHOW application_name").Scan(&name))
	require.Equal(t, applicationName, name)
	require.LessOrEqual(t, clt.pool.Config().MaxConns, int32(maxConns))
}
