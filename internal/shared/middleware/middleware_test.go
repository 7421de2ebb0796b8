package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artist-platform/pkg/jwt"
)

const signerHex = "0202020202020202020202020202020202020202020202020202020202020202"

func newRouter(t *testing.T, tokens *jwt.Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), RequestID())
	r.GET("/whoami", AuthMiddleware(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens, err := jwt.NewManager("secret", time.Hour)
	require.NoError(t, err)
	valid, err := tokens.GenerateAccessToken(signerHex)
	require.NoError(t, err)
	notAKey, err := tokens.GenerateAccessToken("alice")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid", "Bearer " + valid, http.StatusOK, signerHex},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, signerHex},
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, ""},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, ""},
		{"subject not a key", "Bearer " + notAKey, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			r := newRouter(t, tokens)
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			// Execute
			r.ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRequestID_EchoesInbound(t *testing.T) {
	tokens, err := jwt.NewManager("secret", time.Hour)
	require.NoError(t, err)
	r := newRouter(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
}

func TestRecovery(t *testing.T) {
	tokens, err := jwt.NewManager("secret", time.Hour)
	require.NoError(t, err)
	r := newRouter(t, tokens)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}
