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

const subtaskColumns = `id, todo_id, title, is_completed, position, created_at`

// SubtaskRepositoryImpl implements the SubtaskRepository interface
type SubtaskRepositoryImpl struct {
	db *database.DB
}

// NewSubtaskRepository creates a new subtask repository
func NewSubtaskRepository(db *database.DB) ports.SubtaskRepository {
	return &SubtaskRepositoryImpl{db: db}
}

func (r *SubtaskRepositoryImpl) Create(ctx context.Context, subtask *entities.Subtask) error {
	// New subtasks go to the end of the checklist.
	query := `
		INSERT INTO subtasks (todo_id, title, position)
		VALUES ($1, $2, COALESCE((SELECT MAX(position) + 1 FROM subtasks WHERE todo_id = $1), 0))
		RETURNING id, is_completed, position, created_at`

	err := r.db.DB.QueryRowContext(ctx, query, subtask.TodoID, subtask.Title).
		Scan(&subtask.ID, &subtask.IsCompleted, &subtask.Position, &subtask.CreatedAt)
	if err != nil {
		return fmt.Errorf("create subtask: %w", err)
	}

	return nil
}

func (r *SubtaskRepositoryImpl) GetByID(ctx context.Context, todoID, id int) (*entities.Subtask, error) {
	query := `SELECT ` + subtaskColumns + ` FROM subtasks WHERE id = $1 AND todo_id = $2`

	var subtask entities.Subtask
	err := r.db.DB.GetContext(ctx, &subtask, query, id, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("get subtask by id: %w", err)
	}

	return &subtask, nil
}

func (r *SubtaskRepositoryImpl) Update(ctx context.Context, todoID, id int, upd ports.SubtaskUpdate) (*entities.Subtask, error) {
	if upd.IsEmpty() {
		return nil, entities.ErrNoFieldsToUpdate
	}

	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)
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

	query := fmt.Sprintf(
		"UPDATE subtasks SET %s WHERE id = %s AND todo_id = %s RETURNING %s",
		strings.Join(set, ", "), arg(id), arg(todoID), subtaskColumns,
	)

	var subtask entities.Subtask
	err := r.db.DB.GetContext(ctx, &subtask, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("update subtask: %w", err)
	}

	return &subtask, nil
}

func (r *SubtaskRepositoryImpl) Delete(ctx context.Context, todoID, id int) error {
	query := `DELETE FROM subtasks WHERE id = $1 AND todo_id = $2`

	result, err := r.db.DB.ExecContext(ctx, query, id, todoID)
	if err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrSubtaskNotFound
	}

	return nil
}

func (r *SubtaskRepositoryImpl) ListByTodo(ctx context.Context, todoID int) ([]entities.Subtask, error) {
	query := `SELECT ` + subtaskColumns + ` FROM subtasks WHERE todo_id = $1 ORDER BY position, id`

	subtasks := []entities.Subtask{}
	err := r.db.DB.SelectContext(ctx, &subtasks, query, todoID)
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}

	return subtasks, nil
}

func (r *SubtaskRepositoryImpl) ListAll(ctx context.Context) ([]entities.Subtask, error) {
	query := `SELECT ` + subtaskColumns + ` FROM subtasks ORDER BY todo_id, position, id`

	subtasks := []entities.Subtask{}
	err := r.db.DB.SelectContext(ctx, &subtasks, query)
	if err != nil {
		return nil, fmt.Errorf("list all subtasks: %w", err)
	}

	return subtasks, nil
}

func (r *SubtaskRepositoryImpl) Reorder(ctx context.Context, todoID int, orderedIDs []int) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for position, id := range orderedIDs {
			result, err := tx.ExecContext(ctx,
				`UPDATE subtasks SET position = $1 WHERE id = $2 AND todo_id = $3`,
				position, id, todoID,
			)
			if err != nil {
				return fmt.Errorf("reorder subtask %d: %w", id, err)
			}

			rowsAffected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("get rows affected: %w", err)
			}

			if rowsAffected == 0 {
				return entities.ErrSubtaskNotFound
			}
		}
		return nil
	})
}
