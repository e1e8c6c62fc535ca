package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"rental-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsByRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/vehicles/vehicle/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/vehicles/vehicle/abc", nil)
		r.ServeHTTP(w, req)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/nowhere", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/vehicles/vehicle/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := NewMetrics(reg)
	b := NewMetrics(reg)

	a.requestTotal.WithLabelValues("GET", "/x", "200").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(b.requestTotal.WithLabelValues("GET", "/x", "200")))
	assert.Same(t, a.requestLatency, b.requestLatency)
}

func TestRequestLogger_LogsStatusAndErrors(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "test", "debug")

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
	r.ServeHTTP(w, req)

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"status":500`)
	assert.Contains(t, out, `"route":"/fail"`)
	assert.Contains(t, out, "assert.AnError")
}
