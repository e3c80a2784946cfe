package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/infrastructure/database"
	"github.com/mytasks/core/internal/ports"
)

// BirthdayRepositoryImpl implements the BirthdayRepository interface
type BirthdayRepositoryImpl struct {
	db *database.DB
}

// NewBirthdayRepository creates a new birthday repository
func NewBirthdayRepository(db *database.DB) ports.BirthdayRepository {
	return &BirthdayRepositoryImpl{db: db}
}

func (r *BirthdayRepositoryImpl) Create(ctx context.Context, birthday *entities.Birthday) error {
	query := `
		INSERT INTO birthdays (name, date)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.DB.QueryRowContext(ctx, query, birthday.Name, birthday.Date).
		Scan(&birthday.ID, &birthday.CreatedAt)
	if err != nil {
		return fmt.Errorf("create birthday: %w", err)
	}

	return nil
}

func (r *BirthdayRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Birthday, error) {
	query := `SELECT id, name, date, created_at FROM birthdays WHERE id = $1`

	var birthday entities.Birthday
	err := r.db.DB.GetContext(ctx, &birthday, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrBirthdayNotFound
		}
		return nil, fmt.Errorf("get birthday by id: %w", err)
	}

	return &birthday, nil
}

func (r *BirthdayRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM birthdays WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete birthday: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrBirthdayNotFound
	}

	return nil
}

func (r *BirthdayRepositoryImpl) List(ctx context.Context) ([]*entities.Birthday, error) {
	query := `SELECT id, name, date, created_at FROM birthdays ORDER BY date, id`

	birthdays := []*entities.Birthday{}
	err := r.db.DB.SelectContext(ctx, &birthdays, query)
	if err != nil {
		return nil, fmt.Errorf("list birthdays: %w", err)
	}

	return birthdays, nil
}
