package services

import (
	"context"
	"fmt"

	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/infrastructure/logger"
	"github.com/mytasks/core/internal/ports"
)

// BirthdayService handles the birthday list
type BirthdayService struct {
	birthdayRepo ports.BirthdayRepository
	logger       *logger.Logger
}

// NewBirthdayService creates a new birthday service
func NewBirthdayService(birthdayRepo ports.BirthdayRepository, logger *logger.Logger) *BirthdayService {
	return &BirthdayService{
		birthdayRepo: birthdayRepo,
		logger:       logger,
	}
}

// CreateBirthday creates a new birthday entry
func (s *BirthdayService) CreateBirthday(ctx context.Context, req ports.CreateBirthdayRequest) (*entities.Birthday, error) {
	birthday := &entities.Birthday{
		Name: req.Name,
		Date: req.Date,
	}

	if err := s.birthdayRepo.Create(ctx, birthday); err != nil {
		return nil, fmt.Errorf("failed to create birthday: %w", err)
	}

	s.logger.Infow("Birthday created", "birthday_id", birthday.ID, "name", birthday.Name)

	return birthday, nil
}

// ListBirthdays returns every stored birthday
func (s *BirthdayService) ListBirthdays(ctx context.Context) ([]*entities.Birthday, error) {
	birthdays, err := s.birthdayRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list birthdays: %w", err)
	}

	return birthdays, nil
}

// DeleteBirthday removes a birthday by id
func (s *BirthdayService) DeleteBirthday(ctx context.Context, id int) error {
	if err := s.birthdayRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Birthday deleted", "birthday_id", id)

	return nil
}
