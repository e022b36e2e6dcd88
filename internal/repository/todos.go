package repository

import (
	"context"
	"database/sql"

	"verkefnalisti/internal/models"
	"verkefnalisti/pkg/logger"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS todos (
	id SERIAL PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	finished BOOLEAN NOT NULL DEFAULT false,
	created TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Store owns all reads and writes of the todos table. Every failure is
// logged here and returned as a plain error; callers never see a raw driver
// error without it having been recorded.
type Store struct {
	db *sql.DB
}

// New creates a Store over the given connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema idempotently creates the todos table. Safe to call repeatedly.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		logger.Error(ctx, "Repository EnsureSchema failed", "error", err)
		return err
	}
	return nil
}

// List returns all todos: unfinished first, newest first within each group,
// id as the tiebreak so the order is total.
func (s *Store) List(ctx context.Context) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, finished, created FROM todos ORDER BY finished ASC, created DESC, id DESC`)
	if err != nil {
		logger.Error(ctx, "Repository List failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Finished, &t.Created); err != nil {
			logger.Error(ctx, "Repository scan todo failed", "error", err)
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error(ctx, "Repository List rows failed", "error", err)
		return nil, err
	}
	return todos, nil
}

// Create inserts a row with the given title, finished=false, and returns the
// persisted row including the assigned id and creation time.
func (s *Store) Create(ctx context.Context, title string) (*models.Todo, error) {
	var t models.Todo
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO todos (title) VALUES ($1) RETURNING id, title, finished, created`,
		title).Scan(&t.ID, &t.Title, &t.Finished, &t.Created)
	if err != nil {
		logger.Error(ctx, "Repository Create failed", "error", err)
		return nil, err
	}
	return &t, nil
}

// Update overwrites title and finished for the row matching id and returns
// the updated row. A missing id surfaces as sql.ErrNoRows.
func (s *Store) Update(ctx context.Context, id int64, title string, finished bool) (*models.Todo, error) {
	var t models.Todo
	err := s.db.QueryRowContext(ctx,
		`UPDATE todos SET title = $1, finished = $2 WHERE id = $3 RETURNING id, title, finished, created`,
		title, finished, id).Scan(&t.ID, &t.Title, &t.Finished, &t.Created)
	if err != nil {
		logger.Error(ctx, "Repository Update failed", "error", err, "id", id)
		return nil, err
	}
	return &t, nil
}

// Delete removes the row matching id and reports whether exactly one row was
// removed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository Delete failed", "error", err, "id", id)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		logger.Error(ctx, "Repository Delete rows affected failed", "error", err, "id", id)
		return false, err
	}
	return n == 1, nil
}

// DeleteFinished removes all finished rows and returns how many were removed.
// Zero is a valid result, not a failure.
func (s *Store) DeleteFinished(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE finished = true`)
	if err != nil {
		logger.Error(ctx, "Repository DeleteFinished failed", "error", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		logger.Error(ctx, "Repository DeleteFinished rows affected failed", "error", err)
		return 0, err
	}
	return n, nil
}
