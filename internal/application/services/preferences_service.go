package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/infrastructure/logger"
	"github.com/mytasks/core/internal/ports"
)

const calendarColorsKey = "preferences:calendar_colors"

// PreferencesService stores the calendar display preferences the original
// UI kept in browser storage. Reads degrade to the defaults when the store
// is unreachable; writes do not.
type PreferencesService struct {
	cache  ports.Cache
	logger *logger.Logger
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(cache ports.Cache, logger *logger.Logger) *PreferencesService {
	return &PreferencesService{
		cache:  cache,
		logger: logger,
	}
}

// GetCalendarColors returns the stored colors, or the defaults
func (s *PreferencesService) GetCalendarColors(ctx context.Context) (entities.CalendarColors, error) {
	var colors entities.CalendarColors
	err := s.cache.Get(ctx, calendarColorsKey, &colors)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.Warnw("Preferences store unavailable, returning defaults", "error", err)
		}
		return entities.DefaultCalendarColors(), nil
	}

	return colors, nil
}

// UpdateCalendarColors overwrites the stored colors
func (s *PreferencesService) UpdateCalendarColors(ctx context.Context, req ports.UpdatePreferencesRequest) (entities.CalendarColors, error) {
	colors := entities.CalendarColors{
		BirthdayColor: req.BirthdayColor,
		HolidayColor:  req.HolidayColor,
	}

	// No expiration: preferences live until overwritten.
	if err := s.cache.Set(ctx, calendarColorsKey, colors, 0); err != nil {
		return entities.CalendarColors{}, fmt.Errorf("failed to store preferences: %w", err)
	}

	return colors, nil
}
