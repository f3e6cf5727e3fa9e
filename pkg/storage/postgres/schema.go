package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/simplesurance/descpub/pkg/storage"
)

const schemaVer = 1

const initQuery = `
CREATE TABLE migrations (
	schema_version integer NOT NULL
);

INSERT INTO migrations (schema_version) VALUES(1);

CREATE TABLE project (
	id serial PRIMARY KEY,
	name text NOT NULL,
	last_build_number integer NOT NULL DEFAULT 0 CHECK (last_build_number >= 0),
	CONSTRAINT project_name_uniq UNIQUE (name)
);

CREATE TABLE description (
	id serial PRIMARY KEY,
	project_id integer NOT NULL REFERENCES project(id) ON DELETE CASCADE,
	build_number integer NOT NULL,
	build_id text NOT NULL,
	build_result text NOT NULL,
	content text NOT NULL,
	created_at timestamp with time zone NOT NULL
);

CREATE INDEX idx_description_project_id_created_at ON description(project_id, created_at);
`

// Init creates the descpub tables in the postgresql database.
// If they already exist, storage.ErrExists is returned.
func (c *Client) Init(ctx context.Context) error {
	exists, err := c.tableExists(ctx, "migrations")
	if err != nil {
		return err
	}

	if exists {
		return storage.ErrExists
	}

	_, err = c.db.Exec(ctx, initQuery)

	return err
}

// IsCompatible checks if the database schema exist and has the required
// migration version.
func (c *Client) IsCompatible(ctx context.Context) error {
	if err := c.schemaExist(ctx); err != nil {
		return err
	}

	return c.ensureSchemaIsCompatible(ctx)
}

func (c *Client) ensureSchemaIsCompatible(ctx context.Context) error {
	var rowsCount int

	rows, err := c.db.Query(ctx, "SELECT schema_version from migrations")
	if err != nil {
		return fmt.Errorf("querying schema_version failed: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var ver int

		if rowsCount != 0 {
			return errors.New("migrations table contains >1 rows")
		}

		err = rows.Scan(&ver)
		if err != nil {
			return err
		}

		if ver != schemaVer {
			return fmt.Errorf("database schema version is not compatible with descpub version, schema version: %d, expected version: %d", ver, schemaVer)
		}

		rowsCount++
	}

	if err := rows.Err(); err != nil {
		return err
	}

	if rowsCount != 1 {
		return fmt.Errorf("read %d rows from migrations table, expected 1", rowsCount)
	}

	return nil
}

func (c *Client) tableExists(ctx context.Context, tableName string) (bool, error) {
	const query = `
	SELECT EXISTS
	       (
		SELECT FROM pg_tables
		 WHERE schemaname = 'public'
		   AND tablename = $1
	       )
`

	var exists bool

	err := c.db.QueryRow(ctx, query, tableName).Scan(&exists)

	return exists, err
}

func (c *Client) schemaExist(ctx context.Context) error {
	exists, err := c.tableExists(ctx, "migrations")
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("database schema %w", storage.ErrNotExist)
	}

	return nil
}
