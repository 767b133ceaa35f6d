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

// DeliveryManagerHandler exposes delivery manager endpoints.
type DeliveryManagerHandler struct {
	managers *service.DeliveryManagerService
}

// NewDeliveryManagerHandler constructs DeliveryManagerHandler.
func NewDeliveryManagerHandler(managers *service.DeliveryManagerService) *DeliveryManagerHandler {
	return &DeliveryManagerHandler{managers: managers}
}

// List godoc
// @Summary List delivery managers
// @Tags DeliveryManagers
// @Produce json
// @Param search query string false "Search by name or username"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /delivery-managers [get]
func (h *DeliveryManagerHandler) List(c *gin.Context) {
	var filter models.DeliveryManagerFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	managers, pagination, err := h.managers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, managers, pagination)
}

// Get godoc
// @Summary Get delivery manager detail
// @Tags DeliveryManagers
// @Produce json
// @Param id path string true "Delivery manager ID"
// @Success 200 {object} response.Envelope
// @Router /delivery-managers/{id} [get]
func (h *DeliveryManagerHandler) Get(c *gin.Context) {
	manager, err := h.managers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, manager, nil)
}

// Create godoc
// @Summary Create delivery manager
// @Tags DeliveryManagers
// @Accept json
// @Produce json
// @Param payload body service.DeliveryManagerRequest true "Delivery manager payload"
// @Success 201 {object} response.ActionResult
// @Router /delivery-managers [post]
func (h *DeliveryManagerHandler) Create(c *gin.Context) {
	var req service.DeliveryManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Action(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if _, err := h.managers.Create(c.Request.Context(), req); err != nil {
		response.Action(c, err)
		return
	}
	response.ActionCreated(c)
}

// Update godoc
// @Summary Update delivery manager
// @Tags DeliveryManagers
// @Accept json
// @Produce json
// @Param id path string true "Delivery manager ID"
// @Param payload body service.DeliveryManagerRequest true "Delivery manager payload"
// @Success 200 {object} response.ActionResult
// @Router /delivery-managers/{id} [put]
func (h *DeliveryManagerHandler) Update(c *gin.Context) {
	var req service.DeliveryManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Action(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	_, err := h.managers.Update(c.Request.Context(), c.Param("id"), req)
	response.Action(c, err)
}

// Delete godoc
// @Summary Delete delivery manager
// @Tags DeliveryManagers
// @Produce json
// @Param id path string true "Delivery manager ID"
// @Success 200 {object} response.ActionResult
// @Router /delivery-managers/{id} [delete]
func (h *DeliveryManagerHandler) Delete(c *gin.Context) {
	response.Action(c, h.managers.Delete(c.Request.Context(), c.Param("id")))
}
