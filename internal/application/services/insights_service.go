package services

import (
	"context"
	"fmt"
	"math"

	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/infrastructure/logger"
	"github.com/mytasks/core/internal/ports"
)

// InsightsReport is the dashboard aggregation
type InsightsReport struct {
	Total          int                   `json:"total"`
	Completed      int                   `json:"completed"`
	Pending        int                   `json:"pending"`
	CompletionRate int                   `json:"completion_rate"`
	ByCategory     []ports.CategoryCount `json:"by_category"`
	ByPriority     []ports.PriorityCount `json:"by_priority"`
}

// InsightsService aggregates todo counts for the dashboard
type InsightsService struct {
	todoRepo ports.TodoRepository
	logger   *logger.Logger
}

// NewInsightsService creates a new insights service
func NewInsightsService(todoRepo ports.TodoRepository, logger *logger.Logger) *InsightsService {
	return &InsightsService{
		todoRepo: todoRepo,
		logger:   logger,
	}
}

// GetReport computes the dashboard numbers from the store
func (s *InsightsService) GetReport(ctx context.Context) (*InsightsReport, error) {
	stats, err := s.todoRepo.GetCompletionStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get completion stats: %w", err)
	}

	byCategory, err := s.todoRepo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count by category: %w", err)
	}

	byPriority, err := s.todoRepo.CountByPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count by priority: %w", err)
	}

	report := &InsightsReport{
		Total:      stats.Total,
		Completed:  stats.Completed,
		Pending:    stats.Total - stats.Completed,
		ByCategory: byCategory,
		ByPriority: orderedPriorityCounts(byPriority),
	}

	if stats.Total > 0 {
		report.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}

	return report, nil
}

// orderedPriorityCounts returns one bucket per priority in chart order
// (high, medium, low), zero-filled.
func orderedPriorityCounts(counts []ports.PriorityCount) []ports.PriorityCount {
	byPriority := make(map[entities.Priority]int, len(counts))
	for _, c := range counts {
		byPriority[c.Priority] = c.Count
	}

	ordered := []ports.PriorityCount{}
	for _, p := range []entities.Priority{entities.PriorityHigh, entities.PriorityMedium, entities.PriorityLow} {
		ordered = append(ordered, ports.PriorityCount{Priority: p, Count: byPriority[p]})
	}

	return ordered
}
