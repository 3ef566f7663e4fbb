package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeoutEngine(d time.Duration, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Timeout(TimeoutConfig{Duration: d}))
	engine.GET("/test", handler)
	return engine
}

func TestTimeoutPassThrough(t *testing.T) {
	engine := timeoutEngine(time.Second, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeoutWritesGatewayTimeout(t *testing.T) {
	engine := timeoutEngine(20*time.Millisecond, func(c *gin.Context) {
		<-c.Request.Context().Done()
		// Hold the handler open so the deadline branch runs first.
		time.Sleep(50 * time.Millisecond)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusGatewayTimeout, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusGatewayTimeout, resp.Code)
	assert.Equal(t, "Request timeout", resp.Message)
}

func TestTimeoutSkipsWriteWhenResponseStarted(t *testing.T) {
	engine := timeoutEngine(20*time.Millisecond, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
		time.Sleep(60 * time.Millisecond)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Request timeout")
}
