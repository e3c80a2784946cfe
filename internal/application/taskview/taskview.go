// Package taskview derives filtered and sorted views from a fetched todo
// collection. The dataset is a single user's list, so everything here is
// plain in-memory computation recomputed per request.
package taskview

import (
	"sort"

	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/ports"
)

// Status filter values
const (
	StatusAll       = "all"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Sort options
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortPriority = "priority"
	SortDueDate  = "due_date"
)

// Apply filters then sorts the collection according to the query.
// The input slice is not modified.
func Apply(todos []*entities.Todo, q ports.TodoListQuery) []*entities.Todo {
	result := Filter(todos, q.Status, q.Category, q.Search)
	Sort(result, q.Sort)
	return result
}

// Filter returns the todos matching the intersection of the status,
// category and search criteria. Empty criteria match everything.
func Filter(todos []*entities.Todo, status, category, search string) []*entities.Todo {
	result := make([]*entities.Todo, 0, len(todos))
	for _, todo := range todos {
		if !matchesStatus(todo, status) {
			continue
		}
		if category != "" && category != StatusAll && todo.Category != category {
			continue
		}
		if !todo.MatchesSearch(search) {
			continue
		}
		result = append(result, todo)
	}
	return result
}

func matchesStatus(todo *entities.Todo, status string) bool {
	switch status {
	case StatusCompleted:
		return todo.IsDone()
	case StatusActive:
		return !todo.IsDone()
	default:
		return true
	}
}

// Sort orders the slice in place. Sorting is stable, so ties keep the
// incoming newest-first order.
func Sort(todos []*entities.Todo, by string) {
	switch by {
	case SortOldest:
		sort.SliceStable(todos, func(i, j int) bool {
			return todos[i].CreatedAt.Before(todos[j].CreatedAt)
		})
	case SortPriority:
		sort.SliceStable(todos, func(i, j int) bool {
			return todos[i].Priority.Rank() < todos[j].Priority.Rank()
		})
	case SortDueDate:
		sort.SliceStable(todos, func(i, j int) bool {
			a, b := todos[i].DueDate, todos[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				// ISO dates compare correctly as strings.
				return *a < *b
			}
		})
	default:
		sort.SliceStable(todos, func(i, j int) bool {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		})
	}
}
