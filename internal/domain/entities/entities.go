package entities

import (
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrTodoNotFound     = errors.New("todo not found")
	ErrSubtaskNotFound  = errors.New("subtask not found")
	ErrBirthdayNotFound = errors.New("birthday not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrNoImageProvided  = errors.New("no image provided")
)

// DateLayout is the wire format for due dates and birthday dates.
const DateLayout = "2006-01-02"

// Priority is the urgency level of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting: high before medium before low.
// Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// DefaultCategories are the category tokens the UI offers out of the box.
// Categories are an open set; any non-empty token is accepted.
var DefaultCategories = []string{"work", "personal", "health", "shopping", "other"}

// Todo represents a single task row. IsCompleted is an integer 0/1 to match
// the wire shape the clients already depend on.
type Todo struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	IsCompleted int       `json:"is_completed" db:"is_completed"`
	Priority    Priority  `json:"priority" db:"priority"`
	Category    string    `json:"category" db:"category"`
	DueDate     *string   `json:"due_date" db:"due_date"`
	ImageKey    *string   `json:"image_key" db:"image_key"`
	Subtasks    []Subtask `json:"subtasks"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (t *Todo) IsDone() bool {
	return t.IsCompleted != 0
}

// DueOn reports whether the todo is due on the given date (DateLayout).
func (t *Todo) DueOn(date string) bool {
	return t.DueDate != nil && *t.DueDate == date
}

// MatchesSearch reports whether the title contains the query,
// case-insensitively. An empty query matches everything.
func (t *Todo) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), strings.ToLower(query))
}

// Subtask is a checklist item owned by exactly one todo, ordered by Position.
type Subtask struct {
	ID          int       `json:"id" db:"id"`
	TodoID      int       `json:"todo_id" db:"todo_id"`
	Title       string    `json:"title" db:"title"`
	IsCompleted int       `json:"is_completed" db:"is_completed"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Birthday recurs annually; the year component of Date is only used to
// derive an age.
type Birthday struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Date      string    `json:"date" db:"date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OccursOn reports whether the birthday falls on the given month and day.
func (b *Birthday) OccursOn(month time.Month, day int) bool {
	d, err := time.Parse(DateLayout, b.Date)
	if err != nil {
		return false
	}
	return d.Month() == month && d.Day() == day
}

// AgeTurning returns the age the person turns in the given year, or 0 if
// the stored date cannot be parsed.
func (b *Birthday) AgeTurning(year int) int {
	d, err := time.Parse(DateLayout, b.Date)
	if err != nil {
		return 0
	}
	age := year - d.Year()
	if age < 0 {
		return 0
	}
	return age
}

// Holiday comes from the external calendar feed; it is never persisted.
// The ID is derived from name and date, mirroring the feed's own identity.
type Holiday struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

func NewHoliday(name, date string) Holiday {
	return Holiday{ID: name + date, Name: name, Date: date}
}

// OccursOn reports whether the holiday falls on the given calendar date.
func (h *Holiday) OccursOn(month time.Month, day int) bool {
	d, err := time.Parse(DateLayout, h.Date)
	if err != nil {
		return false
	}
	return d.Month() == month && d.Day() == day
}

// CalendarColors are the user's calendar display preferences.
type CalendarColors struct {
	BirthdayColor string `json:"birthday_color"`
	HolidayColor  string `json:"holiday_color"`
}

// DefaultCalendarColors match the UI's built-in palette.
func DefaultCalendarColors() CalendarColors {
	return CalendarColors{
		BirthdayColor: "#ec4899",
		HolidayColor:  "#f59e0b",
	}
}
