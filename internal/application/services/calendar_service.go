package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/infrastructure/logger"
	"github.com/mytasks/core/internal/ports"
)

// CalendarDay is one rendered calendar cell
type CalendarDay struct {
	Date      string             `json:"date"`
	Birthdays []CalendarBirthday `json:"birthdays"`
	Holidays  []entities.Holiday `json:"holidays"`
	TasksDue  []CalendarTask     `json:"tasks_due"`
}

// CalendarBirthday is a birthday occurrence with the derived age
type CalendarBirthday struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// CalendarTask is a todo shown on its due date
type CalendarTask struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	IsCompleted int    `json:"is_completed"`
}

// CalendarService derives the month view from birthdays (annual
// recurrence), the holiday feed and todo due dates. Nothing is persisted;
// the view is recomputed per request.
type CalendarService struct {
	todoRepo     ports.TodoRepository
	birthdayRepo ports.BirthdayRepository
	holidays     *HolidayService
	logger       *logger.Logger
}

// NewCalendarService creates a new calendar service
func NewCalendarService(todoRepo ports.TodoRepository, birthdayRepo ports.BirthdayRepository, holidays *HolidayService, logger *logger.Logger) *CalendarService {
	return &CalendarService{
		todoRepo:     todoRepo,
		birthdayRepo: birthdayRepo,
		holidays:     holidays,
		logger:       logger,
	}
}

// GetMonth returns one cell per day of the given month
func (s *CalendarService) GetMonth(ctx context.Context, year int, month time.Month) ([]CalendarDay, error) {
	birthdays, err := s.birthdayRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list birthdays: %w", err)
	}

	todos, err := s.todoRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	// The calendar still renders without the external feed.
	holidays, err := s.holidays.GetHolidays(ctx, year)
	if err != nil {
		s.logger.Warnw("Holiday feed unavailable, rendering calendar without holidays",
			"year", year, "error", err)
		holidays = []entities.Holiday{}
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	days := make([]CalendarDay, 0, daysInMonth)

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(entities.DateLayout)
		cell := CalendarDay{
			Date:      date,
			Birthdays: []CalendarBirthday{},
			Holidays:  []entities.Holiday{},
			TasksDue:  []CalendarTask{},
		}

		for _, b := range birthdays {
			if b.OccursOn(month, day) {
				cell.Birthdays = append(cell.Birthdays, CalendarBirthday{
					ID:   b.ID,
					Name: b.Name,
					Age:  b.AgeTurning(year),
				})
			}
		}

		for _, h := range holidays {
			if h.Date == date {
				cell.Holidays = append(cell.Holidays, h)
			}
		}

		for _, t := range todos {
			if t.DueOn(date) {
				cell.TasksDue = append(cell.TasksDue, CalendarTask{
					ID:          t.ID,
					Title:       t.Title,
					IsCompleted: t.IsCompleted,
				})
			}
		}

		days = append(days, cell)
	}

	return days, nil
}
