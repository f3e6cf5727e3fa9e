// Package dbtest provides helpers for tests that need a PostgreSQL
// database.
package dbtest

import (
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

const defPSQLURL = "postgres://postgres@localhost:5434/descpub?sslmode=disable&connect_timeout=5"

// PSQLURL returns the value of the environment variable
// DESCPUB_TEST_POSTGRESQL_URL.
// If the environment variable is undefined or empty, defPSQLURL is returned.
func PSQLURL() string {
	if url := os.Getenv("DESCPUB_TEST_POSTGRESQL_URL"); url != "" {
		return url
	}

	return defPSQLURL
}

// CreateDB creates a new database and returns the connection URL string of it.
// The database is created at the postgresql instance reachable via PSQLURL()
func CreateDB(name string) (string, error) {
	ctx := context.Background()
	psqlURL := PSQLURL()

	con, err := pgx.Connect(ctx, psqlURL)
	if err != nil {
		return "", err
	}

	defer con.Close(ctx)

	_, err = con.Exec(ctx, "CREATE DATABASE "+name)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(psqlURL)
	if err != nil {
		return "", err
	}

	u.Path = name

	return u.String(), nil
}

// UniqueDBName returns a unique postgresql database name.
func UniqueDBName() string {
	return "descpub_test" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
