package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mytasks/core/internal/application/services"
	"github.com/mytasks/core/internal/infrastructure/logger"
	"github.com/mytasks/core/internal/ports"
)

// TodoHandler handles todo, subtask and image requests
type TodoHandler struct {
	todoService *services.TodoService
	logger      *logger.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoService *services.TodoService, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		logger:      logger,
	}
}

// List handles GET /api/todos
func (h *TodoHandler) List(c echo.Context) error {
	var q ports.TodoListQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	if err := c.Validate(&q); err != nil {
		return validationError(c, err)
	}

	todos, err := h.todoService.ListTodos(c.Request().Context(), q)
	if err != nil {
		h.logger.Errorw("List todos failed", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, todos)
}

// Create handles POST /api/todos
func (h *TodoHandler) Create(c echo.Context) error {
	var req ports.CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	todo, err := h.todoService.CreateTodo(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create todo failed", "error", err)
		return err
	}

	return c.JSON(http.StatusCreated, todo)
}

// Update handles PATCH /api/todos/:id
func (h *TodoHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	todo, err := h.todoService.UpdateTodo(c.Request().Context(), id, req)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, todo)
}

// Delete handles DELETE /api/todos/:id
func (h *TodoHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.todoService.DeleteTodo(c.Request().Context(), id); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// UploadImage handles POST /api/todos/:id/image
func (h *TodoHandler) UploadImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var upload ports.ImageUpload
	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			return fmt.Errorf("open uploaded image: %w", err)
		}
		defer src.Close()

		upload = ports.ImageUpload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Body:        src,
		}
	}

	// The service checks the todo first so an unknown id stays a 404 even
	// when no file was sent.
	todo, err := h.todoService.AttachImage(c.Request().Context(), id, upload)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, todo)
}

// GetImage handles GET /api/images/*
func (h *TodoHandler) GetImage(c echo.Context) error {
	key := c.Param("*")

	blob, err := h.todoService.GetImage(c.Request().Context(), key)
	if err != nil {
		return domainError(err)
	}
	defer blob.Body.Close()

	// Keys are immutable: a replaced image gets a new key, so the key
	// itself is a valid ETag and the response can be cached for a year.
	c.Response().Header().Set("Cache-Control", "public, max-age=31536000")
	c.Response().Header().Set("ETag", `"`+blob.Key+`"`)

	return c.Stream(http.StatusOK, blob.ContentType, blob.Body)
}

// DeleteImage handles DELETE /api/todos/:id/image
func (h *TodoHandler) DeleteImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.todoService.RemoveImage(c.Request().Context(), id); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// AddSubtask handles POST /api/todos/:id/subtasks
func (h *TodoHandler) AddSubtask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.CreateSubtaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	subtask, err := h.todoService.AddSubtask(c.Request().Context(), id, req)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, subtask)
}

// UpdateSubtask handles PATCH /api/todos/:id/subtasks/:subtaskId
func (h *TodoHandler) UpdateSubtask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	subtaskID, err := pathID(c, "subtaskId")
	if err != nil {
		return err
	}

	var req ports.UpdateSubtaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	subtask, err := h.todoService.UpdateSubtask(c.Request().Context(), id, subtaskID, req)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, subtask)
}

// DeleteSubtask handles DELETE /api/todos/:id/subtasks/:subtaskId
func (h *TodoHandler) DeleteSubtask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	subtaskID, err := pathID(c, "subtaskId")
	if err != nil {
		return err
	}

	if err := h.todoService.DeleteSubtask(c.Request().Context(), id, subtaskID); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// ReorderSubtasks handles PUT /api/todos/:id/subtasks/order
func (h *TodoHandler) ReorderSubtasks(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.ReorderSubtasksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	subtasks, err := h.todoService.ReorderSubtasks(c.Request().Context(), id, req)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, subtasks)
}
