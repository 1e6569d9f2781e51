package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func authedRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TokenAuth(TokenAuthConfig{Token: token}))
	r.GET("/status", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func doGet(r *gin.Engine, path string, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenAuthDisabled(t *testing.T) {
	r := authedRouter("")
	w := doGet(r, "/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTokenAuthRejects(t *testing.T) {
	r := authedRouter("cptoken")

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/status", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/status", "Bearer wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/status?token=wrong", "").Code)
}

func TestTokenAuthAccepts(t *testing.T) {
	r := authedRouter("cptoken")

	assert.Equal(t, http.StatusOK, doGet(r, "/status", "Bearer cptoken").Code)
	// bare token without the Bearer prefix
	assert.Equal(t, http.StatusOK, doGet(r, "/status", "cptoken").Code)
	// query parameter fallback
	assert.Equal(t, http.StatusOK, doGet(r, "/status?token=cptoken", "").Code)
}
