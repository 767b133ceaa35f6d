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

// BatchHandler exposes batch endpoints.
type BatchHandler struct {
	batches *service.BatchService
	exports *service.ExportService
}

// NewBatchHandler constructs BatchHandler.
func NewBatchHandler(batches *service.BatchService, exports *service.ExportService) *BatchHandler {
	return &BatchHandler{batches: batches, exports: exports}
}

// List godoc
// @Summary List batches
// @Tags Batches
// @Produce json
// @Param search query string false "Search by name"
// @Param supervisorId query string false "Filter by supervising teacher"
// @Param dmId query string false "Filter by delivery manager"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	var filter models.BatchFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.SupervisorID = c.Query("supervisorId")
	filter.DMID = c.Query("dmId")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	batches, pagination, err := h.batches.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches, pagination)
}

type batchPayload struct {
	*models.BatchDetail
	AssistantLecturerIDs []string `json:"assistant_lecturer_ids"`
}

// Get godoc
// @Summary Get batch detail
// @Tags Batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /batches/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	detail, assistants, err := h.batches.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batchPayload{BatchDetail: detail, AssistantLecturerIDs: assistants}, nil)
}

// Create godoc
// @Summary Create batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param payload body service.BatchRequest true "Batch payload"
// @Success 201 {object} response.ActionResult
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req service.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Action(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if _, err := h.batches.Create(c.Request.Context(), req); err != nil {
		response.Action(c, err)
		return
	}
	response.ActionCreated(c)
}

// Update godoc
// @Summary Update batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body service.BatchRequest true "Batch payload"
// @Success 200 {object} response.ActionResult
// @Router /batches/{id} [put]
func (h *BatchHandler) Update(c *gin.Context) {
	var req service.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Action(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	_, err := h.batches.Update(c.Request.Context(), c.Param("id"), req)
	response.Action(c, err)
}

// Delete godoc
// @Summary Delete batch
// @Tags Batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.ActionResult
// @Router /batches/{id} [delete]
func (h *BatchHandler) Delete(c *gin.Context) {
	response.Action(c, h.batches.Delete(c.Request.Context(), c.Param("id")))
}

// ExportRoster godoc
// @Summary Export batch roster
// @Tags Batches
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Batch ID"
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Router /batches/{id}/roster/export [get]
func (h *BatchHandler) ExportRoster(c *gin.Context) {
	file, err := h.exports.BatchRoster(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
