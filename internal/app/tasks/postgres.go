package tasks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is the durable Repository used when DATABASE_URL is
// set. Insertion order is tracked by a sequence so List preserves the
// most-recent-first contract even across equal timestamps.
type PostgresRepository struct {
	Pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{Pool: pool}
}

const createTasksSQL = `
CREATE TABLE IF NOT EXISTS tasks (
  id text PRIMARY KEY,
  title text NOT NULL,
  description text,
  status text NOT NULL DEFAULT 'todo',
  priority text NOT NULL DEFAULT 'medium',
  due_date timestamptz,
  shared_with text[] NOT NULL DEFAULT '{}',
  created_by text NOT NULL,
  created_at timestamptz NOT NULL,
  updated_at timestamptz NOT NULL,
  position bigserial
)`

const selectTaskColumns = `id, title, description, status, priority, due_date,
       shared_with, created_by, created_at, updated_at`

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.Pool.Exec(ctx, createTasksSQL)
	return err
}

func (r *PostgresRepository) ReplaceAll(ctx context.Context, collection []Task) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE tasks`); err != nil {
		return err
	}
	// Insert back-to-front so the head of the collection gets the highest
	// position and stays first in List.
	for i := len(collection) - 1; i >= 0; i-- {
		t := collection[i]
		if _, err := tx.Exec(ctx,
			`INSERT INTO tasks (id, title, description, status, priority, due_date, shared_with, created_by, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.SharedWith, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) List(ctx context.Context) ([]Task, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+selectTaskColumns+` FROM tasks ORDER BY position DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Task, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+selectTaskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return t, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, t Task) error {
	_, err := r.Pool.Exec(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, due_date, shared_with, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.SharedWith, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, t Task) error {
	res, err := r.Pool.Exec(ctx,
		`UPDATE tasks
		 SET title = $2, description = $3, status = $4, priority = $5,
		     due_date = $6, shared_with = $7, updated_at = $8
		 WHERE id = $1`,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.SharedWith, t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.SharedWith,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return Task{}, err
	}
	if t.SharedWith == nil {
		t.SharedWith = []string{}
	}
	return t, nil
}
