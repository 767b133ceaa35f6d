package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaximusTitan/cms-api/internal/service"
	"github.com/MaximusTitan/cms-api/pkg/response"
)

// RefDataHandler serves the reference data that populates admin forms.
type RefDataHandler struct {
	refs *service.RefDataService
}

// NewRefDataHandler constructs RefDataHandler.
func NewRefDataHandler(refs *service.RefDataService) *RefDataHandler {
	return &RefDataHandler{refs: refs}
}

// FormRefs godoc
// @Summary Reference data for an entity form
// @Tags Forms
// @Produce json
// @Param entity path string true "Form entity (batch, lesson, student, subject, teacher, dm, event, announcement, recording)"
// @Success 200 {object} response.Envelope
// @Router /forms/{entity}/refs [get]
func (h *RefDataHandler) FormRefs(c *gin.Context) {
	refs, err := h.refs.FormRefs(c.Request.Context(), c.Param("entity"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, refs, nil)
}
