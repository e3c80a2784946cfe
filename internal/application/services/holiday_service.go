package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/infrastructure/config"
	"github.com/mytasks/core/internal/infrastructure/logger"
	"github.com/mytasks/core/internal/ports"
)

// feed categories that count as holidays
var holidayCategories = map[string]bool{
	"holiday":     true,
	"roshchodesh": true,
}

// HolidayService proxies the public holiday feed, caching each year's
// result. The cache is an optimization only: if it is unreachable the
// service falls back to fetching the feed directly.
type HolidayService struct {
	cfg    config.HolidaysConfig
	cache  ports.Cache
	client *http.Client
	logger *logger.Logger
}

// NewHolidayService creates a new holiday service
func NewHolidayService(cfg config.HolidaysConfig, cache ports.Cache, logger *logger.Logger) *HolidayService {
	return &HolidayService{
		cfg:    cfg,
		cache:  cache,
		client: &http.Client{Timeout: cfg.FetchTimeout},
		logger: logger,
	}
}

// GetHolidays returns the holidays for a year, cache-aside
func (s *HolidayService) GetHolidays(ctx context.Context, year int) ([]entities.Holiday, error) {
	cacheKey := fmt.Sprintf("holidays:%d", year)

	if s.cache != nil {
		var cached []entities.Holiday
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.Warnw("Holiday cache unavailable, fetching feed directly", "error", err)
		}
	}

	holidays, err := s.fetchFeed(ctx, year)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, holidays, s.cfg.CacheTTL); err != nil {
			s.logger.Warnw("Failed to cache holidays", "year", year, "error", err)
		}
	}

	return holidays, nil
}

type feedItem struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

type feedResponse struct {
	Items []feedItem `json:"items"`
}

func (s *HolidayService) fetchFeed(ctx context.Context, year int) ([]entities.Holiday, error) {
	feedURL, err := url.Parse(s.cfg.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid holiday feed URL: %w", err)
	}

	query := feedURL.Query()
	query.Set("year", strconv.Itoa(year))
	feedURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday feed request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holiday feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday feed returned status %d", resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode holiday feed: %w", err)
	}

	holidays := []entities.Holiday{}
	for _, item := range feed.Items {
		if !holidayCategories[item.Category] {
			continue
		}

		// Some feed entries carry a full timestamp; keep the date part.
		date := item.Date
		if len(date) > len(entities.DateLayout) {
			date = date[:len(entities.DateLayout)]
		}

		holidays = append(holidays, entities.NewHoliday(item.Title, date))
	}

	return holidays, nil
}
