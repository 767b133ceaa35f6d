package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaximusTitan/cms-api/internal/service"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
	"github.com/MaximusTitan/cms-api/pkg/response"
)

// CalendarHandler serves the current-week schedule projection.
type CalendarHandler struct {
	schedules *service.ScheduleService
}

// NewCalendarHandler constructs CalendarHandler.
func NewCalendarHandler(schedules *service.ScheduleService) *CalendarHandler {
	return &CalendarHandler{schedules: schedules}
}

// Week godoc
// @Summary Weekly calendar for a teacher or a batch
// @Description Projects the weekly lesson template onto the current calendar week. Exactly one of teacherId and batchId must be set.
// @Tags Calendar
// @Produce json
// @Param teacherId query string false "Teacher ID"
// @Param batchId query string false "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) Week(c *gin.Context) {
	teacherID := c.Query("teacherId")
	batchID := c.Query("batchId")

	var (
		entries []service.CalendarEntry
		err     error
	)
	switch {
	case teacherID != "" && batchID != "":
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "teacherId and batchId are mutually exclusive"))
		return
	case teacherID != "":
		entries, err = h.schedules.TeacherCalendar(c.Request.Context(), teacherID)
	case batchID != "":
		entries, err = h.schedules.BatchCalendar(c.Request.Context(), batchID)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "teacherId or batchId is required"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
