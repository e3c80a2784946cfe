package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/infrastructure/database"
	"github.com/mytasks/core/internal/ports"
)

const todoColumns = `id, title, is_completed, priority, category, due_date, image_key, created_at, updated_at`

// TodoRepositoryImpl implements the TodoRepository interface
type TodoRepositoryImpl struct {
	db *database.DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *database.DB) ports.TodoRepository {
	return &TodoRepositoryImpl{db: db}
}

func (r *TodoRepositoryImpl) Create(ctx context.Context, todo *entities.Todo) error {
	query := `
		INSERT INTO todos (title, priority, category, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_completed, image_key, created_at, updated_at`

	err := r.db.DB.QueryRowContext(ctx, query,
		todo.Title, todo.Priority, todo.Category, todo.DueDate,
	).Scan(&todo.ID, &todo.IsCompleted, &todo.ImageKey, &todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}

	return nil
}

func (r *TodoRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`

	var todo entities.Todo
	err := r.db.DB.GetContext(ctx, &todo, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo by id: %w", err)
	}

	return &todo, nil
}

func (r *TodoRepositoryImpl) Update(ctx context.Context, id int, upd ports.TodoUpdate) (*entities.Todo, error) {
	if upd.IsEmpty() {
		return nil, entities.ErrNoFieldsToUpdate
	}

	set := make([]string, 0, 6)
	args := make([]interface{}, 0, 6)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if upd.Title != nil {
		set = append(set, "title = "+arg(*upd.Title))
	}
	if upd.IsCompleted != nil {
		set = append(set, "is_completed = "+arg(*upd.IsCompleted))
	}
	if upd.Priority != nil {
		set = append(set, "priority = "+arg(*upd.Priority))
	}
	if upd.Category != nil {
		set = append(set, "category = "+arg(*upd.Category))
	}
	if upd.DueDate != nil {
		set = append(set, "due_date = "+arg(*upd.DueDate))
	} else if upd.ClearDueDate {
		set = append(set, "due_date = NULL")
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")

	query := fmt.Sprintf(
		"UPDATE todos SET %s WHERE id = %s RETURNING %s",
		strings.Join(set, ", "), arg(id), todoColumns,
	)

	var todo entities.Todo
	err := r.db.DB.GetContext(ctx, &todo, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTodoNotFound
		}
		return nil, fmt.Errorf("update todo: %w", err)
	}

	return &todo, nil
}

// Delete removes the row and its subtasks transactionally and hands back the
// referenced image key. Blob removal happens after commit, so a mid-way
// failure can only strand a blob, never a row pointing at a missing blob.
// Stranded blobs are reclaimed by the gc sweep.
func (r *TodoRepositoryImpl) Delete(ctx context.Context, id int) (*string, error) {
	var imageKey *string

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT image_key FROM todos WHERE id = $1 FOR UPDATE`, id,
		).Scan(&imageKey)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return entities.ErrTodoNotFound
			}
			return fmt.Errorf("select todo for delete: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks WHERE todo_id = $1`, id); err != nil {
			return fmt.Errorf("delete subtasks: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete todo: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return imageKey, nil
}

func (r *TodoRepositoryImpl) List(ctx context.Context) ([]*entities.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY created_at DESC, id DESC`

	todos := []*entities.Todo{}
	err := r.db.DB.SelectContext(ctx, &todos, query)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}

func (r *TodoRepositoryImpl) SetImageKey(ctx context.Context, id int, key *string) (*entities.Todo, error) {
	query := `
		UPDATE todos SET image_key = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + todoColumns

	var todo entities.Todo
	err := r.db.DB.GetContext(ctx, &todo, query, id, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTodoNotFound
		}
		return nil, fmt.Errorf("set image key: %w", err)
	}

	return &todo, nil
}

func (r *TodoRepositoryImpl) ListImageKeys(ctx context.Context) ([]string, error) {
	query := `SELECT image_key FROM todos WHERE image_key IS NOT NULL`

	keys := []string{}
	err := r.db.DB.SelectContext(ctx, &keys, query)
	if err != nil {
		return nil, fmt.Errorf("list image keys: %w", err)
	}

	return keys, nil
}

func (r *TodoRepositoryImpl) CountByCategory(ctx context.Context) ([]ports.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*) AS count
		FROM todos
		GROUP BY category
		ORDER BY count DESC, category`

	counts := []ports.CategoryCount{}
	err := r.db.DB.SelectContext(ctx, &counts, query)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}

	return counts, nil
}

func (r *TodoRepositoryImpl) CountByPriority(ctx context.Context) ([]ports.PriorityCount, error) {
	query := `
		SELECT priority, COUNT(*) AS count
		FROM todos
		GROUP BY priority`

	counts := []ports.PriorityCount{}
	err := r.db.DB.SelectContext(ctx, &counts, query)
	if err != nil {
		return nil, fmt.Errorf("count by priority: %w", err)
	}

	return counts, nil
}

func (r *TodoRepositoryImpl) GetCompletionStats(ctx context.Context) (*ports.CompletionStats, error) {
	query := `
		SELECT COUNT(*) AS total, COALESCE(SUM(is_completed), 0) AS completed
		FROM todos`

	var stats ports.CompletionStats
	err := r.db.DB.GetContext(ctx, &stats, query)
	if err != nil {
		return nil, fmt.Errorf("completion stats: %w", err)
	}

	return &stats, nil
}
