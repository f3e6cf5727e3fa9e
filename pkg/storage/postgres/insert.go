package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"

	"github.com/simplesurance/descpub/pkg/storage"
)

func strArgList(args ...any) string {
	var result strings.Builder

	result.WriteRune('[')

	for i, arg := range args {
		fmt.Fprintf(&result, "'%v'", arg)

		if i < len(args)-1 {
			result.WriteString(", ")
		}
	}

	result.WriteRune(']')

	return result.String()
}

func newQueryError(query string, err error, args ...any) error {
	return fmt.Errorf("query %s with args: %s failed: %w", query, strArgList(args...), err)
}

// NextBuildNumber increments the build counter of a project and returns
// the new value. The project record is created if it does not exist.
func (c *Client) NextBuildNumber(ctx context.Context, projectName string) (int, error) {
	const query = `
	INSERT INTO project (name, last_build_number)
	VALUES ($1, 1)
	ON CONFLICT ON CONSTRAINT project_name_uniq
	DO UPDATE SET last_build_number = project.last_build_number + 1
	RETURNING last_build_number
	`

	var number int

	err := c.db.QueryRow(ctx, query, projectName).Scan(&number)
	if err != nil {
		return 0, newQueryError(query, err, projectName)
	}

	return number, nil
}

func insertProjectIfNotExist(ctx context.Context, db dbConn, name string) (int, error) {
	const query = `
	INSERT INTO project (name)
	VALUES ($1)
	ON CONFLICT ON CONSTRAINT project_name_uniq
	DO UPDATE SET id=project.id
	RETURNING id
	`

	var id int

	err := db.QueryRow(ctx, query, name).Scan(&id)
	if err != nil {
		return -1, newQueryError(query, err, name)
	}

	return id, nil
}

func insertDescription(ctx context.Context, db dbConn, projectID int, desc *storage.Description) (int, error) {
	const query = `
	INSERT INTO description (project_id, build_number, build_id, build_result, content, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id
	`

	var id int

	err := db.QueryRow(ctx, query,
		projectID,
		desc.BuildNumber,
		desc.BuildID,
		desc.BuildResult,
		desc.Content,
		desc.CreatedAt,
	).Scan(&id)
	if err != nil {
		return -1, newQueryError(query, err, projectID, desc.BuildNumber, desc.BuildID, desc.BuildResult, "<content>", desc.CreatedAt)
	}

	return id, nil
}

// SaveDescription stores a description, the project record is created if
// it does not exist.
func (c *Client) SaveDescription(ctx context.Context, desc *storage.Description) (int, error) {
	var id int

	err := c.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		projectID, err := insertProjectIfNotExist(ctx, tx, desc.ProjectName)
		if err != nil {
			return err
		}

		id, err = insertDescription(ctx, tx, projectID, desc)
		return err
	})
	if err != nil {
		return -1, err
	}

	return id, nil
}
