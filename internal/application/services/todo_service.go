package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/mytasks/core/internal/application/taskview"
	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/infrastructure/logger"
	"github.com/mytasks/core/internal/ports"
)

// TodoService handles the todo lifecycle, including subtasks and image
// attachments.
type TodoService struct {
	todoRepo    ports.TodoRepository
	subtaskRepo ports.SubtaskRepository
	blobs       ports.BlobStore
	logger      *logger.Logger
}

// NewTodoService creates a new todo service
func NewTodoService(todoRepo ports.TodoRepository, subtaskRepo ports.SubtaskRepository, blobs ports.BlobStore, logger *logger.Logger) *TodoService {
	return &TodoService{
		todoRepo:    todoRepo,
		subtaskRepo: subtaskRepo,
		blobs:       blobs,
		logger:      logger,
	}
}

// CreateTodo creates a new todo
func (s *TodoService) CreateTodo(ctx context.Context, req ports.CreateTodoRequest) (*entities.Todo, error) {
	todo := &entities.Todo{
		Title:    req.Title,
		Priority: req.Priority,
		Category: req.Category,
		DueDate:  req.DueDate,
		Subtasks: []entities.Subtask{},
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Infow("Todo created", "todo_id", todo.ID, "title", todo.Title)

	return todo, nil
}

// GetTodo retrieves a todo by ID with its subtasks
func (s *TodoService) GetTodo(ctx context.Context, id int) (*entities.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subtasks, err := s.subtaskRepo.ListByTodo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load subtasks: %w", err)
	}
	todo.Subtasks = subtasks

	return todo, nil
}

// ListTodos returns the full collection, newest first, with the query's
// filter and sort applied in memory.
func (s *TodoService) ListTodos(ctx context.Context, q ports.TodoListQuery) ([]*entities.Todo, error) {
	todos, err := s.todoRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	subtasks, err := s.subtaskRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load subtasks: %w", err)
	}

	byTodo := make(map[int][]entities.Subtask, len(todos))
	for _, st := range subtasks {
		byTodo[st.TodoID] = append(byTodo[st.TodoID], st)
	}
	for _, todo := range todos {
		todo.Subtasks = byTodo[todo.ID]
		if todo.Subtasks == nil {
			todo.Subtasks = []entities.Subtask{}
		}
	}

	return taskview.Apply(todos, q), nil
}

// UpdateTodo applies a sparse update and re-stamps updated_at
func (s *TodoService) UpdateTodo(ctx context.Context, id int, req ports.UpdateTodoRequest) (*entities.Todo, error) {
	if req.IsEmpty() {
		return nil, entities.ErrNoFieldsToUpdate
	}

	todo, err := s.todoRepo.Update(ctx, id, req.ToUpdate())
	if err != nil {
		return nil, err
	}

	subtasks, err := s.subtaskRepo.ListByTodo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load subtasks: %w", err)
	}
	todo.Subtasks = subtasks

	s.logger.Infow("Todo updated", "todo_id", id)

	return todo, nil
}

// DeleteTodo removes the row (and subtasks) transactionally, then removes
// the attached blob. A blob deletion failure is logged and left to the gc
// sweep rather than surfaced to the caller.
func (s *TodoService) DeleteTodo(ctx context.Context, id int) error {
	imageKey, err := s.todoRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if imageKey != nil {
		if err := s.blobs.Delete(ctx, *imageKey); err != nil && !errors.Is(err, entities.ErrImageNotFound) {
			s.logger.Warnw("Failed to delete image blob, leaving for gc",
				"todo_id", id, "image_key", *imageKey, "error", err)
		}
	}

	s.logger.Infow("Todo deleted", "todo_id", id)

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// imageKeyFor namespaces blob keys by todo id and upload time, so replaced
// images never collide.
func imageKeyFor(todoID int, filename string) string {
	name := unsafeFilenameChars.ReplaceAllString(filepath.Base(filename), "-")
	return fmt.Sprintf("todos/%d/%d-%s", todoID, time.Now().UnixMilli(), name)
}

// AttachImage stores a new image blob for the todo, points the row at it,
// and only then removes the previous blob. A failure mid-way leaves the old
// image intact; a stranded new blob is reclaimed by gc.
func (s *TodoService) AttachImage(ctx context.Context, id int, upload ports.ImageUpload) (*entities.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upload.Body == nil {
		return nil, entities.ErrNoImageProvided
	}

	key := imageKeyFor(id, upload.Filename)
	if err := s.blobs.Put(ctx, key, upload.ContentType, upload.Body); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	updated, err := s.todoRepo.SetImageKey(ctx, id, &key)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Warnw("Failed to clean up unreferenced blob", "image_key", key, "error", delErr)
		}
		return nil, err
	}

	if todo.ImageKey != nil {
		if err := s.blobs.Delete(ctx, *todo.ImageKey); err != nil && !errors.Is(err, entities.ErrImageNotFound) {
			s.logger.Warnw("Failed to delete replaced image blob, leaving for gc",
				"todo_id", id, "image_key", *todo.ImageKey, "error", err)
		}
	}

	subtasks, err := s.subtaskRepo.ListByTodo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load subtasks: %w", err)
	}
	updated.Subtasks = subtasks

	s.logger.Infow("Image attached", "todo_id", id, "image_key", key)

	return updated, nil
}

// GetImage streams a stored image blob by key
func (s *TodoService) GetImage(ctx context.Context, key string) (*ports.Blob, error) {
	return s.blobs.Get(ctx, key)
}

// RemoveImage clears the todo's image reference first, then deletes the
// blob, so the row never points at a missing blob.
func (s *TodoService) RemoveImage(ctx context.Context, id int) error {
	todo, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.todoRepo.SetImageKey(ctx, id, nil); err != nil {
		return err
	}

	if todo.ImageKey != nil {
		if err := s.blobs.Delete(ctx, *todo.ImageKey); err != nil && !errors.Is(err, entities.ErrImageNotFound) {
			s.logger.Warnw("Failed to delete image blob, leaving for gc",
				"todo_id", id, "image_key", *todo.ImageKey, "error", err)
		}
	}

	s.logger.Infow("Image removed", "todo_id", id)

	return nil
}

// ReconcileImages is the idempotent sweep for blobs no todo references.
// Blobs younger than grace are skipped so a concurrent upload that has not
// been committed to its row yet is never reclaimed.
func (s *TodoService) ReconcileImages(ctx context.Context, grace time.Duration) (int, error) {
	keys, err := s.todoRepo.ListImageKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list referenced image keys: %w", err)
	}

	live := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		live[key] = struct{}{}
	}

	blobs, err := s.blobs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list blobs: %w", err)
	}

	cutoff := time.Now().Add(-grace)
	removed := 0
	for _, blob := range blobs {
		if _, ok := live[blob.Key]; ok {
			continue
		}
		if blob.ModTime.After(cutoff) {
			continue
		}

		if err := s.blobs.Delete(ctx, blob.Key); err != nil {
			s.logger.Warnw("Failed to remove orphaned blob", "image_key", blob.Key, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Infow("Orphaned blobs reclaimed", "count", removed)
	}

	return removed, nil
}

// AddSubtask appends a checklist item to the todo
func (s *TodoService) AddSubtask(ctx context.Context, todoID int, req ports.CreateSubtaskRequest) (*entities.Subtask, error) {
	if _, err := s.todoRepo.GetByID(ctx, todoID); err != nil {
		return nil, err
	}

	subtask := &entities.Subtask{
		TodoID: todoID,
		Title:  req.Title,
	}
	if err := s.subtaskRepo.Create(ctx, subtask); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}

	s.logger.Infow("Subtask created", "todo_id", todoID, "subtask_id", subtask.ID)

	return subtask, nil
}

// UpdateSubtask applies a sparse update to a checklist item
func (s *TodoService) UpdateSubtask(ctx context.Context, todoID, subtaskID int, req ports.UpdateSubtaskRequest) (*entities.Subtask, error) {
	if req.IsEmpty() {
		return nil, entities.ErrNoFieldsToUpdate
	}

	return s.subtaskRepo.Update(ctx, todoID, subtaskID, ports.SubtaskUpdate{
		Title:       req.Title,
		IsCompleted: req.IsCompleted,
	})
}

// DeleteSubtask removes a checklist item
func (s *TodoService) DeleteSubtask(ctx context.Context, todoID, subtaskID int) error {
	return s.subtaskRepo.Delete(ctx, todoID, subtaskID)
}

// ReorderSubtasks rewrites checklist positions to match the given order
func (s *TodoService) ReorderSubtasks(ctx context.Context, todoID int, req ports.ReorderSubtasksRequest) ([]entities.Subtask, error) {
	if _, err := s.todoRepo.GetByID(ctx, todoID); err != nil {
		return nil, err
	}

	if err := s.subtaskRepo.Reorder(ctx, todoID, req.SubtaskIDs); err != nil {
		return nil, err
	}

	return s.subtaskRepo.ListByTodo(ctx, todoID)
}
