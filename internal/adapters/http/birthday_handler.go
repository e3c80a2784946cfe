package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mytasks/core/internal/application/services"
	"github.com/mytasks/core/internal/infrastructure/logger"
	"github.com/mytasks/core/internal/ports"
)

// BirthdayHandler handles birthday list requests
type BirthdayHandler struct {
	birthdayService *services.BirthdayService
	logger          *logger.Logger
}

// NewBirthdayHandler creates a new birthday handler
func NewBirthdayHandler(birthdayService *services.BirthdayService, logger *logger.Logger) *BirthdayHandler {
	return &BirthdayHandler{
		birthdayService: birthdayService,
		logger:          logger,
	}
}

// List handles GET /api/birthdays
func (h *BirthdayHandler) List(c echo.Context) error {
	birthdays, err := h.birthdayService.ListBirthdays(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List birthdays failed", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, birthdays)
}

// Create handles POST /api/birthdays
func (h *BirthdayHandler) Create(c echo.Context) error {
	var req ports.CreateBirthdayRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	birthday, err := h.birthdayService.CreateBirthday(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create birthday failed", "error", err)
		return err
	}

	return c.JSON(http.StatusCreated, birthday)
}

// Delete handles DELETE /api/birthdays/:id
func (h *BirthdayHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.birthdayService.DeleteBirthday(c.Request().Context(), id); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
