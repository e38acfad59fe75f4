package todo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements the same contract on pgx. The seq column
// preserves insertion order; WHERE-by-id updates and deletes detect missing
// rows via RETURNING / rows affected.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const schema = `
	CREATE TABLE IF NOT EXISTS todos (
		seq        BIGINT GENERATED ALWAYS AS IDENTITY,
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		completed  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)
`

// EnsureSchema creates the todos table if it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

func formatTS(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func scanTodo(row pgx.Row) (Todo, error) {
	var t Todo
	var created, updated time.Time
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &created, &updated)
	if err != nil {
		return Todo{}, err
	}
	t.CreatedAt = formatTS(created)
	t.UpdatedAt = formatTS(updated)
	return t, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, userID string, status Status) ([]Todo, error) {
	query := `
		SELECT id, user_id, title, completed, created_at, updated_at
		FROM todos
		WHERE user_id = $1
	`
	switch status {
	case StatusActive:
		query += " AND completed = FALSE"
	case StatusCompleted:
		query += " AND completed = TRUE"
	}
	query += " ORDER BY seq"

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Todo, bool, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, title, completed, created_at, updated_at
		FROM todos
		WHERE id = $1
	`, id)

	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Todo{}, false, nil
		}
		return Todo{}, false, err
	}
	return t, true, nil
}

func (r *PostgresRepository) Create(ctx context.Context, dto CreateTodoDTO) (Todo, error) {
	if err := dto.Validate(); err != nil {
		return Todo{}, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO todos (id, user_id, title, completed, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, now(), now())
		RETURNING id, user_id, title, completed, created_at, updated_at
	`, uuid.NewString(), dto.UserID, strings.TrimSpace(dto.Title))

	return scanTodo(row)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, dto UpdateTodoDTO) (Todo, error) {
	if err := dto.Validate(); err != nil {
		return Todo{}, err
	}

	var title *string
	if dto.Title != nil {
		trimmed := strings.TrimSpace(*dto.Title)
		title = &trimmed
	}

	row := r.db.QueryRow(ctx, `
		UPDATE todos
		SET title      = COALESCE($1, title),
		    completed  = COALESCE($2, completed),
		    updated_at = now()
		WHERE id = $3
		RETURNING id, user_id, title, completed, created_at, updated_at
	`, title, dto.Completed, id)

	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Todo{}, ErrNotFound
		}
		return Todo{}, err
	}
	return t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
