package ports

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/mytasks/core/internal/domain/entities"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// TodoRepository defines the interface for todo data operations.
type TodoRepository interface {
	Create(ctx context.Context, todo *entities.Todo) error
	GetByID(ctx context.Context, id int) (*entities.Todo, error)
	// Update applies only the fields set in upd and re-stamps updated_at.
	Update(ctx context.Context, id int, upd TodoUpdate) (*entities.Todo, error)
	// Delete removes the row and its subtasks in a single transaction and
	// returns the image key the row referenced, if any. The caller is
	// responsible for removing the blob afterwards.
	Delete(ctx context.Context, id int) (*string, error)
	List(ctx context.Context) ([]*entities.Todo, error)
	SetImageKey(ctx context.Context, id int, key *string) (*entities.Todo, error)
	// ListImageKeys returns every image key currently referenced by a row.
	ListImageKeys(ctx context.Context) ([]string, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	CountByPriority(ctx context.Context) ([]PriorityCount, error)
	GetCompletionStats(ctx context.Context) (*CompletionStats, error)
}

// SubtaskRepository defines the interface for subtask data operations.
// Every operation is scoped to the owning todo.
type SubtaskRepository interface {
	Create(ctx context.Context, subtask *entities.Subtask) error
	GetByID(ctx context.Context, todoID, id int) (*entities.Subtask, error)
	Update(ctx context.Context, todoID, id int, upd SubtaskUpdate) (*entities.Subtask, error)
	Delete(ctx context.Context, todoID, id int) error
	ListByTodo(ctx context.Context, todoID int) ([]entities.Subtask, error)
	// ListAll returns every subtask, ordered by owning todo and position,
	// so list responses can embed checklists with one query.
	ListAll(ctx context.Context) ([]entities.Subtask, error)
	// Reorder rewrites positions to match orderedIDs, transactionally.
	Reorder(ctx context.Context, todoID int, orderedIDs []int) error
}

// BirthdayRepository defines the interface for birthday data operations.
type BirthdayRepository interface {
	Create(ctx context.Context, birthday *entities.Birthday) error
	GetByID(ctx context.Context, id int) (*entities.Birthday, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*entities.Birthday, error)
}

// Blob is a stored object streamed back to the caller. Body must be closed.
type Blob struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// BlobInfo describes a stored object without opening it.
type BlobInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// BlobStore defines the interface for key-addressed binary storage.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) (*Blob, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]BlobInfo, error)
}

// Cache defines the interface for caching operations. Values are
// JSON-serialized by the implementation.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// TodoUpdate is the sparse field set applied by TodoRepository.Update.
// Nil fields are left untouched. ClearDueDate removes the due date.
type TodoUpdate struct {
	Title        *string
	IsCompleted  *int
	Priority     *entities.Priority
	Category     *string
	DueDate      *string
	ClearDueDate bool
}

func (u TodoUpdate) IsEmpty() bool {
	return u.Title == nil && u.IsCompleted == nil && u.Priority == nil &&
		u.Category == nil && u.DueDate == nil && !u.ClearDueDate
}

// SubtaskUpdate is the sparse field set applied by SubtaskRepository.Update.
type SubtaskUpdate struct {
	Title       *string
	IsCompleted *int
}

func (u SubtaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.IsCompleted == nil
}

// Aggregate rows returned by the insights queries.
type CategoryCount struct {
	Category string `json:"category" db:"category"`
	Count    int    `json:"count" db:"count"`
}

type PriorityCount struct {
	Priority entities.Priority `json:"priority" db:"priority"`
	Count    int               `json:"count" db:"count"`
}

type CompletionStats struct {
	Total     int `json:"total" db:"total"`
	Completed int `json:"completed" db:"completed"`
}
