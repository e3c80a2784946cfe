package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/mytasks/core/internal/application/services"
	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/infrastructure/logger"
	"github.com/mytasks/core/internal/ports"
)

// Test doubles for the repository ports, enough to drive the handlers
// through real services.

type memTodoRepo struct {
	todos  []*entities.Todo
	nextID int
}

func (r *memTodoRepo) find(id int) *entities.Todo {
	for _, t := range r.todos {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r *memTodoRepo) Create(ctx context.Context, todo *entities.Todo) error {
	r.nextID++
	todo.ID = r.nextID
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = todo.CreatedAt
	stored := *todo
	r.todos = append(r.todos, &stored)
	return nil
}

func (r *memTodoRepo) GetByID(ctx context.Context, id int) (*entities.Todo, error) {
	t := r.find(id)
	if t == nil {
		return nil, entities.ErrTodoNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *memTodoRepo) Update(ctx context.Context, id int, upd ports.TodoUpdate) (*entities.Todo, error) {
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

func (r *memTodoRepo) Delete(ctx context.Context, id int) (*string, error) {
	for i, t := range r.todos {
		if t.ID == id {
			key := t.ImageKey
			r.todos = append(r.todos[:i], r.todos[i+1:]...)
			return key, nil
		}
	}
	return nil, entities.ErrTodoNotFound
}

func (r *memTodoRepo) List(ctx context.Context) ([]*entities.Todo, error) {
	out := make([]*entities.Todo, 0, len(r.todos))
	for i := len(r.todos) - 1; i >= 0; i-- {
		clone := *r.todos[i]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memTodoRepo) SetImageKey(ctx context.Context, id int, key *string) (*entities.Todo, error) {
	t := r.find(id)
	if t == nil {
		return nil, entities.ErrTodoNotFound
	}
	t.ImageKey = key
	clone := *t
	return &clone, nil
}

func (r *memTodoRepo) ListImageKeys(ctx context.Context) ([]string, error) {
	keys := []string{}
	for _, t := range r.todos {
		if t.ImageKey != nil {
			keys = append(keys, *t.ImageKey)
		}
	}
	return keys, nil
}

func (r *memTodoRepo) CountByCategory(ctx context.Context) ([]ports.CategoryCount, error) {
	return []ports.CategoryCount{}, nil
}

func (r *memTodoRepo) CountByPriority(ctx context.Context) ([]ports.PriorityCount, error) {
	return []ports.PriorityCount{}, nil
}

func (r *memTodoRepo) GetCompletionStats(ctx context.Context) (*ports.CompletionStats, error) {
	return &ports.CompletionStats{}, nil
}

type memSubtaskRepo struct {
	subtasks []entities.Subtask
	nextID   int
}

func (r *memSubtaskRepo) Create(ctx context.Context, subtask *entities.Subtask) error {
	r.nextID++
	subtask.ID = r.nextID
	subtask.CreatedAt = time.Now()
	for _, st := range r.subtasks {
		if st.TodoID == subtask.TodoID && st.Position >= subtask.Position {
			subtask.Position = st.Position + 1
		}
	}
	r.subtasks = append(r.subtasks, *subtask)
	return nil
}

func (r *memSubtaskRepo) GetByID(ctx context.Context, todoID, id int) (*entities.Subtask, error) {
	for _, st := range r.subtasks {
		if st.TodoID == todoID && st.ID == id {
			clone := st
			return &clone, nil
		}
	}
	return nil, entities.ErrSubtaskNotFound
}

func (r *memSubtaskRepo) Update(ctx context.Context, todoID, id int, upd ports.SubtaskUpdate) (*entities.Subtask, error) {
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

func (r *memSubtaskRepo) Delete(ctx context.Context, todoID, id int) error {
	for i, st := range r.subtasks {
		if st.TodoID == todoID && st.ID == id {
			r.subtasks = append(r.subtasks[:i], r.subtasks[i+1:]...)
			return nil
		}
	}
	return entities.ErrSubtaskNotFound
}

func (r *memSubtaskRepo) ListByTodo(ctx context.Context, todoID int) ([]entities.Subtask, error) {
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

func (r *memSubtaskRepo) ListAll(ctx context.Context) ([]entities.Subtask, error) {
	out := make([]entities.Subtask, len(r.subtasks))
	copy(out, r.subtasks)
	return out, nil
}

func (r *memSubtaskRepo) Reorder(ctx context.Context, todoID int, orderedIDs []int) error {
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

type memBirthdayRepo struct {
	birthdays []*entities.Birthday
	nextID    int
}

func (r *memBirthdayRepo) Create(ctx context.Context, birthday *entities.Birthday) error {
	r.nextID++
	birthday.ID = r.nextID
	birthday.CreatedAt = time.Now()
	stored := *birthday
	r.birthdays = append(r.birthdays, &stored)
	return nil
}

func (r *memBirthdayRepo) GetByID(ctx context.Context, id int) (*entities.Birthday, error) {
	for _, b := range r.birthdays {
		if b.ID == id {
			clone := *b
			return &clone, nil
		}
	}
	return nil, entities.ErrBirthdayNotFound
}

func (r *memBirthdayRepo) Delete(ctx context.Context, id int) error {
	for i, b := range r.birthdays {
		if b.ID == id {
			r.birthdays = append(r.birthdays[:i], r.birthdays[i+1:]...)
			return nil
		}
	}
	return entities.ErrBirthdayNotFound
}

func (r *memBirthdayRepo) List(ctx context.Context) ([]*entities.Birthday, error) {
	out := make([]*entities.Birthday, 0, len(r.birthdays))
	for _, b := range r.birthdays {
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

type memBlobStore struct {
	blobs map[string][]byte
	types map[string]string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string][]byte{}, types: map[string]string{}}
}

func (s *memBlobStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.blobs[key] = data
	s.types[key] = contentType
	return nil
}

func (s *memBlobStore) Get(ctx context.Context, key string) (*ports.Blob, error) {
	data, ok := s.blobs[key]
	if !ok {
		return nil, entities.ErrImageNotFound
	}
	return &ports.Blob{
		Key:         key,
		ContentType: s.types[key],
		Size:        int64(len(data)),
		Body:        io.NopCloser(strings.NewReader(string(data))),
	}, nil
}

func (s *memBlobStore) Delete(ctx context.Context, key string) error {
	if _, ok := s.blobs[key]; !ok {
		return entities.ErrImageNotFound
	}
	delete(s.blobs, key)
	delete(s.types, key)
	return nil
}

func (s *memBlobStore) List(ctx context.Context) ([]ports.BlobInfo, error) {
	out := []ports.BlobInfo{}
	for key, data := range s.blobs {
		out = append(out, ports.BlobInfo{Key: key, Size: int64(len(data)), ModTime: time.Now()})
	}
	return out, nil
}

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	e.Validator = &testValidator{validator: v}
	return e
}

type handlerFixture struct {
	echo     *echo.Echo
	todos    *TodoHandler
	blobs    *memBlobStore
	todoSvc  *services.TodoService
	todoRepo *memTodoRepo
}

func newHandlerFixture() *handlerFixture {
	todoRepo := &memTodoRepo{}
	subtaskRepo := &memSubtaskRepo{}
	blobs := newMemBlobStore()
	todoSvc := services.NewTodoService(todoRepo, subtaskRepo, blobs, logger.NewNop())

	return &handlerFixture{
		echo:     newTestEcho(),
		todos:    NewTodoHandler(todoSvc, logger.NewNop()),
		blobs:    blobs,
		todoSvc:  todoSvc,
		todoRepo: todoRepo,
	}
}

func (f *handlerFixture) jsonRequest(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return f.echo.NewContext(req, rec), rec
}

func createTodo(t *testing.T, f *handlerFixture, body string) entities.Todo {
	t.Helper()

	c, rec := f.jsonRequest(http.MethodPost, "/api/todos", body)
	if err := f.todos.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, want 201", rec.Code)
	}

	var todo entities.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todo); err != nil {
		t.Fatalf("decode created todo: %v", err)
	}
	return todo
}

func TestCreateTodoHandler(t *testing.T) {
	f := newHandlerFixture()

	todo := createTodo(t, f, `{"title":"Buy milk","priority":"high","category":"shopping"}`)

	if todo.ID != 1 || todo.Title != "Buy milk" || todo.Priority != entities.PriorityHigh {
		t.Errorf("unexpected todo: %+v", todo)
	}
	if todo.IsCompleted != 0 {
		t.Error("new todo should be incomplete")
	}
}

func TestCreateTodoHandlerValidation(t *testing.T) {
	f := newHandlerFixture()

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing title", `{"priority":"high","category":"work"}`, "title"},
		{"bad priority", `{"title":"x","priority":"urgent","category":"work"}`, "priority"},
		{"bad due date", `{"title":"x","priority":"low","category":"work","due_date":"tomorrow"}`, "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := f.jsonRequest(http.MethodPost, "/api/todos", tt.body)
			if err := f.todos.Create(c); err != nil {
				t.Fatalf("handler returned error instead of writing response: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			var resp ValidationErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Error != "Invalid input" {
				t.Errorf("error = %q, want Invalid input", resp.Error)
			}
			found := false
			for _, d := range resp.Details {
				if d.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("details %v do not name field %q", resp.Details, tt.wantField)
			}
		})
	}
}

func TestUpdateTodoHandler(t *testing.T) {
	f := newHandlerFixture()
	todo := createTodo(t, f, `{"title":"Original","priority":"low","category":"work"}`)

	// Backdate the stored row so the re-stamp on update is observable.
	f.todoRepo.find(todo.ID).UpdatedAt = todo.UpdatedAt.Add(-time.Minute)

	c, rec := f.jsonRequest(http.MethodPatch, "/api/todos/1", `{"is_completed":1,"title":"Renamed"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := f.todos.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var updated entities.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.ID != todo.ID || updated.Title != "Renamed" || updated.IsCompleted != 1 {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if !updated.UpdatedAt.After(todo.UpdatedAt) {
		t.Errorf("updated_at = %v, want newer than creation stamp %v", updated.UpdatedAt, todo.UpdatedAt)
	}
}

func TestUpdateTodoHandlerNotFound(t *testing.T) {
	f := newHandlerFixture()

	c, _ := f.jsonRequest(http.MethodPatch, "/api/todos/99", `{"is_completed":1}`)
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := f.todos.Update(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("Update unknown id = %v, want 404", err)
	}
	if he.Message != "Todo not found" {
		t.Errorf("message = %v, want Todo not found", he.Message)
	}
}

func TestUpdateTodoHandlerEmptyPatch(t *testing.T) {
	f := newHandlerFixture()
	createTodo(t, f, `{"title":"x","priority":"low","category":"work"}`)

	c, _ := f.jsonRequest(http.MethodPatch, "/api/todos/1", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := f.todos.Update(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("empty patch = %v, want 400", err)
	}
	if he.Message != "No fields to update" {
		t.Errorf("message = %v, want No fields to update", he.Message)
	}
}

func TestUpdateTodoHandlerInvalidID(t *testing.T) {
	f := newHandlerFixture()

	for _, raw := range []string{"abc", "0", "-3"} {
		c, _ := f.jsonRequest(http.MethodPatch, "/api/todos/"+raw, `{"is_completed":1}`)
		c.SetParamNames("id")
		c.SetParamValues(raw)

		err := f.todos.Update(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("id %q = %v, want 400", raw, err)
		}
	}
}

func TestDeleteTodoHandler(t *testing.T) {
	f := newHandlerFixture()
	createTodo(t, f, `{"title":"x","priority":"low","category":"work"}`)

	c, rec := f.jsonRequest(http.MethodDelete, "/api/todos/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := f.todos.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var resp SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("expected success true")
	}

	c, _ = f.jsonRequest(http.MethodDelete, "/api/todos/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	err := f.todos.Delete(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("second delete = %v, want 404", err)
	}
}

func TestListTodosHandlerInvalidSort(t *testing.T) {
	f := newHandlerFixture()

	c, rec := f.jsonRequest(http.MethodGet, "/api/todos?sort=alphabetical", "")

	if err := f.todos.List(c); err != nil {
		t.Fatalf("handler returned error instead of writing response: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListTodosHandlerFilters(t *testing.T) {
	f := newHandlerFixture()
	createTodo(t, f, `{"title":"Work item","priority":"high","category":"work"}`)
	createTodo(t, f, `{"title":"Errand","priority":"low","category":"personal"}`)

	c, rec := f.jsonRequest(http.MethodGet, "/api/todos?category=work", "")
	if err := f.todos.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}

	var todos []entities.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "Work item" {
		t.Errorf("unexpected filtered list: %+v", todos)
	}
}

func TestSubtaskHandlers(t *testing.T) {
	f := newHandlerFixture()
	createTodo(t, f, `{"title":"Owner","priority":"medium","category":"work"}`)

	// Add two subtasks.
	for _, title := range []string{"one", "two"} {
		c, rec := f.jsonRequest(http.MethodPost, "/api/todos/1/subtasks", `{"title":"`+title+`"}`)
		c.SetParamNames("id")
		c.SetParamValues("1")
		if err := f.todos.AddSubtask(c); err != nil {
			t.Fatalf("AddSubtask: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("AddSubtask status = %d, want 201", rec.Code)
		}
	}

	// Reorder them.
	c, rec := f.jsonRequest(http.MethodPut, "/api/todos/1/subtasks/order", `{"subtask_ids":[2,1]}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := f.todos.ReorderSubtasks(c); err != nil {
		t.Fatalf("ReorderSubtasks: %v", err)
	}

	var subtasks []entities.Subtask
	if err := json.Unmarshal(rec.Body.Bytes(), &subtasks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(subtasks) != 2 || subtasks[0].ID != 2 || subtasks[1].ID != 1 {
		t.Errorf("unexpected order: %+v", subtasks)
	}

	// Complete one.
	c, rec = f.jsonRequest(http.MethodPatch, "/api/todos/1/subtasks/1", `{"is_completed":1}`)
	c.SetParamNames("id", "subtaskId")
	c.SetParamValues("1", "1")
	if err := f.todos.UpdateSubtask(c); err != nil {
		t.Fatalf("UpdateSubtask: %v", err)
	}
	var updated entities.Subtask
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.IsCompleted != 1 {
		t.Error("subtask not completed")
	}

	// Delete against the wrong todo must miss.
	c, _ = f.jsonRequest(http.MethodDelete, "/api/todos/2/subtasks/1", "")
	c.SetParamNames("id", "subtaskId")
	c.SetParamValues("2", "1")
	err := f.todos.DeleteSubtask(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("cross-todo delete = %v, want 404", err)
	}
}

func TestUploadImageHandlerNoFile(t *testing.T) {
	f := newHandlerFixture()
	createTodo(t, f, `{"title":"x","priority":"low","category":"work"}`)

	c, _ := f.jsonRequest(http.MethodPost, "/api/todos/1/image", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := f.todos.UploadImage(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("no file = %v, want 400", err)
	}
	if he.Message != "No image provided" {
		t.Errorf("message = %v, want No image provided", he.Message)
	}
}

func TestUploadImageHandlerUnknownTodoWins(t *testing.T) {
	f := newHandlerFixture()

	// Unknown id takes precedence over the missing file.
	c, _ := f.jsonRequest(http.MethodPost, "/api/todos/7/image", "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	err := f.todos.UploadImage(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("unknown todo = %v, want 404", err)
	}
}

func TestGetImageHandler(t *testing.T) {
	f := newHandlerFixture()
	createTodo(t, f, `{"title":"x","priority":"low","category":"work"}`)

	todo, err := f.todoSvc.AttachImage(context.Background(), 1, ports.ImageUpload{
		Filename:    "photo.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png bytes"),
	})
	if err != nil {
		t.Fatalf("AttachImage: %v", err)
	}
	key := *todo.ImageKey

	c, rec := f.jsonRequest(http.MethodGet, "/api/images/"+key, "")
	c.SetParamNames("*")
	c.SetParamValues(key)

	if err := f.todos.GetImage(c); err != nil {
		t.Fatalf("GetImage: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=31536000" {
		t.Errorf("cache control = %q", cc)
	}
	if etag := rec.Header().Get("ETag"); etag != `"`+key+`"` {
		t.Errorf("etag = %q, want quoted key", etag)
	}
	if rec.Body.String() != "png bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestGetImageHandlerMissing(t *testing.T) {
	f := newHandlerFixture()

	c, _ := f.jsonRequest(http.MethodGet, "/api/images/todos/1/nope.png", "")
	c.SetParamNames("*")
	c.SetParamValues("todos/1/nope.png")

	err := f.todos.GetImage(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("missing image = %v, want 404", err)
	}
}

func TestBirthdayHandlers(t *testing.T) {
	e := newTestEcho()
	repo := &memBirthdayRepo{}
	svc := services.NewBirthdayService(repo, logger.NewNop())
	h := NewBirthdayHandler(svc, logger.NewNop())

	newCtx := func(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec), rec
	}

	c, rec := newCtx(http.MethodPost, "/api/birthdays", `{"name":"Dana","date":"1990-06-15"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, want 201", rec.Code)
	}

	c, rec = newCtx(http.MethodPost, "/api/birthdays", `{"name":"Bad","date":"June 15"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("invalid date should write a 400 response, got error %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid date status = %d, want 400", rec.Code)
	}

	c, rec = newCtx(http.MethodGet, "/api/birthdays", "")
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	var birthdays []entities.Birthday
	if err := json.Unmarshal(rec.Body.Bytes(), &birthdays); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(birthdays) != 1 || birthdays[0].Name != "Dana" {
		t.Errorf("unexpected list: %+v", birthdays)
	}

	c, rec = newCtx(http.MethodDelete, "/api/birthdays/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var resp SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("expected success true")
	}

	c, _ = newCtx(http.MethodDelete, "/api/birthdays/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	err := h.Delete(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("double delete = %v, want 404", err)
	}
}
