package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/mytasks/core/internal/application/services"
	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/infrastructure/logger"
	"github.com/mytasks/core/internal/ports"
)

// Response types

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationDetail struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type ValidationErrorResponse struct {
	Error   string             `json:"error"`
	Details []ValidationDetail `json:"details"`
}

// validationError reports every violated field, mirroring the error shape
// the UI already parses.
func validationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	details := make([]ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, ValidationDetail{
			Field: fe.Field(),
			Rule:  fe.Tag(),
		})
	}

	return c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:   "Invalid input",
		Details: details,
	})
}

// domainError translates service errors into HTTP errors. Anything
// unmapped surfaces as a 500 through the server's error handler.
func domainError(err error) error {
	switch {
	case errors.Is(err, entities.ErrTodoNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Todo not found")
	case errors.Is(err, entities.ErrSubtaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Subtask not found")
	case errors.Is(err, entities.ErrBirthdayNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Birthday not found")
	case errors.Is(err, entities.ErrImageNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Image not found")
	case errors.Is(err, entities.ErrNoFieldsToUpdate):
		return echo.NewHTTPError(http.StatusBadRequest, "No fields to update")
	case errors.Is(err, entities.ErrNoImageProvided):
		return echo.NewHTTPError(http.StatusBadRequest, "No image provided")
	default:
		return err
	}
}

func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

// CalendarHandler handles the calendar month view and the holiday feed proxy
type CalendarHandler struct {
	calendarService *services.CalendarService
	holidayService  *services.HolidayService
	logger          *logger.Logger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService *services.CalendarService, holidayService *services.HolidayService, logger *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		holidayService:  holidayService,
		logger:          logger,
	}
}

// GetHolidays handles GET /api/holidays
func (h *CalendarHandler) GetHolidays(c echo.Context) error {
	year := time.Now().Year()
	if yearStr := c.QueryParam("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid year")
		}
		year = parsed
	}

	holidays, err := h.holidayService.GetHolidays(c.Request().Context(), year)
	if err != nil {
		h.logger.Errorw("Get holidays failed", "year", year, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "Holiday feed unavailable")
	}

	return c.JSON(http.StatusOK, holidays)
}

// GetMonth handles GET /api/calendar
func (h *CalendarHandler) GetMonth(c echo.Context) error {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if yearStr := c.QueryParam("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid year")
		}
		year = parsed
	}
	if monthStr := c.QueryParam("month"); monthStr != "" {
		parsed, err := strconv.Atoi(monthStr)
		if err != nil || parsed < 1 || parsed > 12 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid month")
		}
		month = time.Month(parsed)
	}

	days, err := h.calendarService.GetMonth(c.Request().Context(), year, month)
	if err != nil {
		h.logger.Errorw("Get calendar failed", "year", year, "month", month, "error", err)
		return err
	}

	return c.JSON(http.StatusOK, days)
}

// InsightsHandler handles the dashboard aggregation endpoint
type InsightsHandler struct {
	insightsService *services.InsightsService
	logger          *logger.Logger
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightsService *services.InsightsService, logger *logger.Logger) *InsightsHandler {
	return &InsightsHandler{
		insightsService: insightsService,
		logger:          logger,
	}
}

// GetReport handles GET /api/insights
func (h *InsightsHandler) GetReport(c echo.Context) error {
	report, err := h.insightsService.GetReport(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Get insights failed", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, report)
}

// PreferencesHandler handles calendar display preferences
type PreferencesHandler struct {
	preferencesService *services.PreferencesService
	logger             *logger.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(preferencesService *services.PreferencesService, logger *logger.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		preferencesService: preferencesService,
		logger:             logger,
	}
}

// Get handles GET /api/preferences
func (h *PreferencesHandler) Get(c echo.Context) error {
	colors, err := h.preferencesService.GetCalendarColors(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Get preferences failed", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, colors)
}

// Update handles PUT /api/preferences
func (h *PreferencesHandler) Update(c echo.Context) error {
	var req ports.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid input")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	colors, err := h.preferencesService.UpdateCalendarColors(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Update preferences failed", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, colors)
}
