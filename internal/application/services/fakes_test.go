package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/ports"
)

// In-memory fakes for the repository and storage ports so service behavior
// can be exercised without postgres or a filesystem.

type fakeTodoRepo struct {
	todos  []*entities.Todo
	nextID int
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{nextID: 1}
}

func (r *fakeTodoRepo) Create(ctx context.Context, todo *entities.Todo) error {
	todo.ID = r.nextID
	r.nextID++
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = todo.CreatedAt
	stored := *todo
	r.todos = append(r.todos, &stored)
	return nil
}

func (r *fakeTodoRepo) find(id int) *entities.Todo {
	for _, t := range r.todos {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r *fakeTodoRepo) GetByID(ctx context.Context, id int) (*entities.Todo, error) {
	t := r.find(id)
	if t == nil {
		return nil, entities.ErrTodoNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTodoRepo) Update(ctx context.Context, id int, upd ports.TodoUpdate) (*entities.Todo, error) {
	t := r.find(id)
	if t == nil {
		return nil, entities.ErrTodoNotFound
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.IsCompleted != nil {
		t.IsCompleted = *upd.IsCompleted
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if upd.Category != nil {
		t.Category = *upd.Category
	}
	if upd.ClearDueDate {
		t.DueDate = nil
	} else if upd.DueDate != nil {
		t.DueDate = upd.DueDate
	}
	t.UpdatedAt = time.Now()
	clone := *t
	return &clone, nil
}

func (r *fakeTodoRepo) Delete(ctx context.Context, id int) (*string, error) {
	for i, t := range r.todos {
		if t.ID == id {
			key := t.ImageKey
			r.todos = append(r.todos[:i], r.todos[i+1:]...)
			return key, nil
		}
	}
	return nil, entities.ErrTodoNotFound
}

func (r *fakeTodoRepo) List(ctx context.Context) ([]*entities.Todo, error) {
	out := make([]*entities.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		clone := *t
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeTodoRepo) SetImageKey(ctx context.Context, id int, key *string) (*entities.Todo, error) {
	t := r.find(id)
	if t == nil {
		return nil, entities.ErrTodoNotFound
	}
	t.ImageKey = key
	clone := *t
	return &clone, nil
}

func (r *fakeTodoRepo) ListImageKeys(ctx context.Context) ([]string, error) {
	keys := []string{}
	for _, t := range r.todos {
		if t.ImageKey != nil {
			keys = append(keys, *t.ImageKey)
		}
	}
	return keys, nil
}

func (r *fakeTodoRepo) CountByCategory(ctx context.Context) ([]ports.CategoryCount, error) {
	counts := map[string]int{}
	order := []string{}
	for _, t := range r.todos {
		if _, seen := counts[t.Category]; !seen {
			order = append(order, t.Category)
		}
		counts[t.Category]++
	}
	out := []ports.CategoryCount{}
	for _, c := range order {
		out = append(out, ports.CategoryCount{Category: c, Count: counts[c]})
	}
	return out, nil
}

func (r *fakeTodoRepo) CountByPriority(ctx context.Context) ([]ports.PriorityCount, error) {
	counts := map[entities.Priority]int{}
	for _, t := range r.todos {
		counts[t.Priority]++
	}
	out := []ports.PriorityCount{}
	for p, c := range counts {
		out = append(out, ports.PriorityCount{Priority: p, Count: c})
	}
	return out, nil
}

func (r *fakeTodoRepo) GetCompletionStats(ctx context.Context) (*ports.CompletionStats, error) {
	stats := &ports.CompletionStats{}
	for _, t := range r.todos {
		stats.Total++
		stats.Completed += t.IsCompleted
	}
	return stats, nil
}

type fakeSubtaskRepo struct {
	subtasks []entities.Subtask
	nextID   int
}

func newFakeSubtaskRepo() *fakeSubtaskRepo {
	return &fakeSubtaskRepo{nextID: 1}
}

func (r *fakeSubtaskRepo) Create(ctx context.Context, subtask *entities.Subtask) error {
	subtask.ID = r.nextID
	r.nextID++
	subtask.CreatedAt = time.Now()
	subtask.Position = 0
	for _, st := range r.subtasks {
		if st.TodoID == subtask.TodoID && st.Position >= subtask.Position {
			subtask.Position = st.Position + 1
		}
	}
	r.subtasks = append(r.subtasks, *subtask)
	return nil
}

func (r *fakeSubtaskRepo) GetByID(ctx context.Context, todoID, id int) (*entities.Subtask, error) {
	for _, st := range r.subtasks {
		if st.TodoID == todoID && st.ID == id {
			clone :=st
			return &clone, nil
		}
	}
	return nil, entities.ErrSubtaskNotFound
}

func (r *fakeSubtaskRepo) Update(ctx context.Context, todoID, id int, upd ports.SubtaskUpdate) (*entities.Subtask, error) {
	for i := range r.subtasks {
		st := &r.subtasks[i]
		if st.TodoID != todoID || st.ID != id {
			continue
		}
		if upd.Title != nil {
			st.Title = *upd.Title
		}
		if upd.IsCompleted != nil {
			st.IsCompleted = *upd.IsCompleted
		}
		clone := *st
		return &clone, nil
	}
	return nil, entities.ErrSubtaskNotFound
}

func (r *fakeSubtaskRepo) Delete(ctx context.Context, todoID, id int) error {
	for i, st := range r.subtasks {
		if st.TodoID == todoID && st.ID == id {
			r.subtasks = append(r.subtasks[:i], r.subtasks[i+1:]...)
			return nil
		}
	}
	return entities.ErrSubtaskNotFound
}

func (r *fakeSubtaskRepo) ListByTodo(ctx context.Context, todoID int) ([]entities.Subtask, error) {
	out := []entities.Subtask{}
	for _, st := range r.subtasks {
		if st.TodoID == todoID {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *fakeSubtaskRepo) ListAll(ctx context.Context) ([]entities.Subtask, error) {
	out := make([]entities.Subtask, len(r.subtasks))
	copy(out, r.subtasks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TodoID != out[j].TodoID {
			return out[i].TodoID < out[j].TodoID
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *fakeSubtaskRepo) Reorder(ctx context.Context, todoID int, orderedIDs []int) error {
	for pos, id := range orderedIDs {
		found := false
		for i := range r.subtasks {
			if r.subtasks[i].TodoID == todoID && r.subtasks[i].ID == id {
				r.subtasks[i].Position = pos
				found = true
				break
			}
		}
		if !found {
			return entities.ErrSubtaskNotFound
		}
	}
	return nil
}

type fakeBirthdayRepo struct {
	birthdays []*entities.Birthday
	nextID    int
}

func newFakeBirthdayRepo() *fakeBirthdayRepo {
	return &fakeBirthdayRepo{nextID: 1}
}

func (r *fakeBirthdayRepo) Create(ctx context.Context, birthday *entities.Birthday) error {
	birthday.ID = r.nextID
	r.nextID++
	birthday.CreatedAt = time.Now()
	stored := *birthday
	r.birthdays = append(r.birthdays, &stored)
	return nil
}

func (r *fakeBirthdayRepo) GetByID(ctx context.Context, id int) (*entities.Birthday, error) {
	for _, b := range r.birthdays {
		if b.ID == id {
			clone := *b
			return &clone, nil
		}
	}
	return nil, entities.ErrBirthdayNotFound
}

func (r *fakeBirthdayRepo) Delete(ctx context.Context, id int) error {
	for i, b := range r.birthdays {
		if b.ID == id {
			r.birthdays = append(r.birthdays[:i], r.birthdays[i+1:]...)
			return nil
		}
	}
	return entities.ErrBirthdayNotFound
}

func (r *fakeBirthdayRepo) List(ctx context.Context) ([]*entities.Birthday, error) {
	out := make([]*entities.Birthday, 0, len(r.birthdays))
	for _, b := range r.birthdays {
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

type fakeBlob struct {
	data        []byte
	contentType string
	modTime     time.Time
}

type fakeBlobStore struct {
	blobs map[string]fakeBlob
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string]fakeBlob{}}
}

func (s *fakeBlobStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.blobs[key] = fakeBlob{data: data, contentType: contentType, modTime: time.Now()}
	return nil
}

func (s *fakeBlobStore) Get(ctx context.Context, key string) (*ports.Blob, error) {
	b, ok := s.blobs[key]
	if !ok {
		return nil, entities.ErrImageNotFound
	}
	return &ports.Blob{
		Key:         key,
		ContentType: b.contentType,
		Size:        int64(len(b.data)),
		Body:        io.NopCloser(newByteReader(b.data)),
	}, nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, key string) error {
	if _, ok := s.blobs[key]; !ok {
		return entities.ErrImageNotFound
	}
	delete(s.blobs, key)
	return nil
}

func (s *fakeBlobStore) List(ctx context.Context) ([]ports.BlobInfo, error) {
	out := []ports.BlobInfo{}
	for key, b := range s.blobs {
		out = append(out, ports.BlobInfo{Key: key, Size: int64(len(b.data)), ModTime: b.modTime})
	}
	return out, nil
}

// age backdates a stored blob so sweep tests can cross the grace cutoff.
func (s *fakeBlobStore) age(key string, d time.Duration) {
	b := s.blobs[key]
	b.modTime = b.modTime.Add(-d)
	s.blobs[key] = b
}

type byteReader struct {
	data []byte
	pos  int
}

func newByteReader(data []byte) *byteReader {
	return &byteReader{data: data}
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

type fakeCache struct {
	values map[string][]byte
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = data
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	data, ok := c.values[key]
	if !ok {
		return ports.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error {
	if c.getErr != nil {
		return fmt.Errorf("cache down")
	}
	return nil
}
