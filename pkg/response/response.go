package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaximusTitan/cms-api/internal/models"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
)

// Envelope represents the common response contract for read endpoints.
type Envelope struct {
	Data       interface{}        `json:"data,omitempty"`
	Error      *appErrors.Error   `json:"error,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// ActionResult is the uniform contract every mutating form endpoint
// returns. The UI only inspects Success/Error plus an optional message.
type ActionResult struct {
	Success bool   `json:"success"`
	Error   bool   `json:"error"`
	Message string `json:"message,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, Envelope{Data: data, Pagination: pagination})
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// Action maps the outcome of a form mutation into the flat ActionResult
// shape. Validation and capacity messages are surfaced verbatim; the
// inconsistent-state case keeps its own message so operators can tell it
// apart; everything else collapses into a generic failure.
func Action(c *gin.Context, err error) {
	if err == nil {
		c.JSON(http.StatusOK, ActionResult{Success: true})
		return
	}

	appErr := appErrors.FromError(err)
	result := ActionResult{Success: false, Error: true}
	switch appErr.Code {
	case appErrors.ErrValidation.Code, appErrors.ErrCapacityFull.Code, appErrors.ErrInconsistent.Code:
		result.Message = appErr.Message
	}
	c.JSON(appErr.Status, result)
}

// ActionCreated reports a successful create mutation.
func ActionCreated(c *gin.Context) {
	c.JSON(http.StatusCreated, ActionResult{Success: true})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
