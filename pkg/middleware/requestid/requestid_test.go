package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestMiddlewareGeneratesIDWhenAbsent(t *testing.T) {
	r, seen := newRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(rec, req)

	require.NotEmpty(t, *seen)
	require.Equal(t, *seen, rec.Header().Get("X-Request-ID"))
}

func TestMiddlewareHonorsCallerSuppliedID(t *testing.T) {
	r, seen := newRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	r.ServeHTTP(rec, req)

	require.Equal(t, "trace-42", *seen)
	require.Equal(t, "trace-42", rec.Header().Get("X-Request-ID"))
}
