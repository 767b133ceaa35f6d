package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MaximusTitan/cms-api/internal/models"
	"github.com/MaximusTitan/cms-api/internal/service"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
	"github.com/MaximusTitan/cms-api/pkg/response"
)

// RecordingHandler exposes class recording endpoints.
type RecordingHandler struct {
	recordings *service.RecordingService
}

// NewRecordingHandler constructs RecordingHandler.
func NewRecordingHandler(recordings *service.RecordingService) *RecordingHandler {
	return &RecordingHandler{recordings: recordings}
}

// List godoc
// @Summary List class recordings
// @Tags Recordings
// @Produce json
// @Param search query string false "Search by title"
// @Param batchId query string false "Filter by batch"
// @Param teacherId query string false "Filter by teacher"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /class-recordings [get]
func (h *RecordingHandler) List(c *gin.Context) {
	var filter models.ClassRecordingFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.BatchID = c.Query("batchId")
	filter.TeacherID = c.Query("teacherId")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	recordings, pagination, err := h.recordings.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recordings, pagination)
}

// Get godoc
// @Summary Get class recording detail
// @Tags Recordings
// @Produce json
// @Param id path string true "Recording ID"
// @Success 200 {object} response.Envelope
// @Router /class-recordings/{id} [get]
func (h *RecordingHandler) Get(c *gin.Context) {
	recording, err := h.recordings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recording, nil)
}

// Create godoc
// @Summary Create class recording
// @Tags Recordings
// @Accept json
// @Produce json
// @Param payload body service.RecordingRequest true "Recording payload"
// @Success 201 {object} response.ActionResult
// @Router /class-recordings [post]
func (h *RecordingHandler) Create(c *gin.Context) {
	var req service.RecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Action(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if _, err := h.recordings.Create(c.Request.Context(), req); err != nil {
		response.Action(c, err)
		return
	}
	response.ActionCreated(c)
}

// Update godoc
// @Summary Update class recording
// @Tags Recordings
// @Accept json
// @Produce json
// @Param id path string true "Recording ID"
// @Param payload body service.RecordingRequest true "Recording payload"
// @Success 200 {object} response.ActionResult
// @Router /class-recordings/{id} [put]
func (h *RecordingHandler) Update(c *gin.Context) {
	var req service.RecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Action(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	_, err := h.recordings.Update(c.Request.Context(), c.Param("id"), req)
	response.Action(c, err)
}

// Delete godoc
// @Summary Delete class recording
// @Tags Recordings
// @Produce json
// @Param id path string true "Recording ID"
// @Success 200 {object} response.ActionResult
// @Router /class-recordings/{id} [delete]
func (h *RecordingHandler) Delete(c *gin.Context) {
	response.Action(c, h.recordings.Delete(c.Request.Context(), c.Param("id")))
}
