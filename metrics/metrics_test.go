package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/notes/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/notes/:id", "204"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes/abc", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/notes/:id", "204"))
	assert.Equal(t, before+1, after)
}

func TestObserveHelpers(t *testing.T) {
	before := testutil.ToFloat64(UpstreamCallsTotal.WithLabelValues("m", "success"))
	ObserveUpstreamCall("m", "success", 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(UpstreamCallsTotal.WithLabelValues("m", "success")))

	fb := testutil.ToFloat64(ChatResultsTotal.WithLabelValues("true"))
	ObserveChatResult(true)
	assert.Equal(t, fb+1, testutil.ToFloat64(ChatResultsTotal.WithLabelValues("true")))
}
