package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/simplesurance/descpub/pkg/storage"
)

const descriptionsQuery = `
	SELECT description.id,
	       project.name,
	       description.build_number,
	       description.build_id,
	       description.build_result,
	       description.content,
	       description.created_at
	  FROM project
	  JOIN description ON project.id = description.project_id
	 WHERE project.name = $1
	 ORDER BY description.created_at DESC, description.id DESC
`

func scanDescription(row pgx.Row) (*storage.DescriptionWithID, error) {
	var result storage.DescriptionWithID

	err := row.Scan(
		&result.ID,
		&result.ProjectName,
		&result.BuildNumber,
		&result.BuildID,
		&result.BuildResult,
		&result.Content,
		&result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// LatestDescription returns the most recently stored description of a
// project.
func (c *Client) LatestDescription(ctx context.Context, projectName string) (*storage.DescriptionWithID, error) {
	const query = descriptionsQuery + " LIMIT 1"

	result, err := scanDescription(c.db.QueryRow(ctx, query, projectName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotExist
		}

		return nil, newQueryError(query, err, projectName)
	}

	return result, nil
}

// Descriptions returns the descriptions of a project, newest first.
func (c *Client) Descriptions(ctx context.Context, projectName string, limit uint) ([]*storage.DescriptionWithID, error) {
	query := descriptionsQuery
	args := []any{projectName}

	if limit != storage.NoLimit {
		query += " LIMIT $2"
		args = append(args, int64(limit))
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, newQueryError(query, err, args...)
	}
	defer rows.Close()

	var result []*storage.DescriptionWithID
	for rows.Next() {
		desc, err := scanDescription(rows)
		if err != nil {
			return nil, newQueryError(query, err, args...)
		}

		result = append(result, desc)
	}

	if err := rows.Err(); err != nil {
		return nil, newQueryError(query, err, args...)
	}

	if len(result) == 0 {
		return nil, storage.ErrNotExist
	}

	return result, nil
}
