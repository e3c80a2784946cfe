package ports

import (
	"io"

	"github.com/mytasks/core/internal/domain/entities"
)

// ImageUpload carries an incoming image file from the HTTP layer.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Todo related types.

type CreateTodoRequest struct {
	Title    string            `json:"title" validate:"required,min=1,max=200"`
	Priority entities.Priority `json:"priority" validate:"required,oneof=low medium high"`
	Category string            `json:"category" validate:"required,min=1,max=50"`
	DueDate  *string           `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTodoRequest is a sparse PATCH body; nil fields are left untouched.
// An empty due_date string clears the stored due date.
type UpdateTodoRequest struct {
	Title       *string            `json:"title" validate:"omitempty,min=1,max=200"`
	IsCompleted *int               `json:"is_completed" validate:"omitempty,min=0,max=1"`
	Priority    *entities.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category    *string            `json:"category" validate:"omitempty,min=1,max=50"`
	DueDate     *string            `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r UpdateTodoRequest) IsEmpty() bool {
	return r.Title == nil && r.IsCompleted == nil && r.Priority == nil &&
		r.Category == nil && r.DueDate == nil
}

// ToUpdate converts the request into the repository's sparse field set.
func (r UpdateTodoRequest) ToUpdate() TodoUpdate {
	upd := TodoUpdate{
		Title:       r.Title,
		IsCompleted: r.IsCompleted,
		Priority:    r.Priority,
		Category:    r.Category,
	}
	if r.DueDate != nil {
		if *r.DueDate == "" {
			upd.ClearDueDate = true
		} else {
			upd.DueDate = r.DueDate
		}
	}
	return upd
}

// TodoListQuery mirrors the UI's filter and sort controls. Zero values mean
// "all, newest first".
type TodoListQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=all active completed"`
	Category string `query:"category"`
	Search   string `query:"search"`
	Sort     string `query:"sort" validate:"omitempty,oneof=newest oldest priority due_date"`
}

// Subtask related types.

type CreateSubtaskRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

type UpdateSubtaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	IsCompleted *int    `json:"is_completed" validate:"omitempty,min=0,max=1"`
}

func (r UpdateSubtaskRequest) IsEmpty() bool {
	return r.Title == nil && r.IsCompleted == nil
}

type ReorderSubtasksRequest struct {
	SubtaskIDs []int `json:"subtask_ids" validate:"required,min=1,dive,min=1"`
}

// Birthday related types.

type CreateBirthdayRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Preferences related types.

type UpdatePreferencesRequest struct {
	BirthdayColor string `json:"birthday_color" validate:"required,hexcolor"`
	HolidayColor  string `json:"holiday_color" validate:"required,hexcolor"`
}
