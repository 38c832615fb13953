package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/ronda-app/models"
	"github.com/yeremiapane/ronda-app/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error")
}

func serve(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id"), "role": c.GetString("role")})
}

func TestAuthMiddleware(t *testing.T) {
	utils.ConfigureJWT("middleware-secret", 1)
	r := gin.New()
	r.GET("/p", AuthMiddleware(), ok)

	token, err := utils.GenerateToken(7, "MOZO")
	assert.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"no bearer prefix", token, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := map[string]string{}
			if tt.header != "" {
				h["Authorization"] = tt.header
			}
			w := serve(r, http.MethodGet, "/p", h)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := serve(r, http.MethodGet, "/p", map[string]string{"Authorization": "Bearer " + token})
	assert.JSONEq(t, `{"user_id":7,"role":"MOZO"}`, w.Body.String())
}

func TestWebSocketAuthMiddleware(t *testing.T) {
	utils.ConfigureJWT("middleware-secret", 1)
	r := gin.New()
	r.GET("/ws", WebSocketAuthMiddleware(), ok)

	token, err := utils.GenerateToken(3, "COCINERO")
	assert.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ws?token="+token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/ws", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/ws?token=nope", nil).Code)
}

func TestRequireRoles(t *testing.T) {
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set("role", role)
			}
			c.Next()
		}
	}

	for role, want := range map[string]int{
		"ADMIN":    http.StatusOK,
		"MOZO":     http.StatusOK,
		"COCINERO": http.StatusForbidden,
		"":         http.StatusUnauthorized,
	} {
		r := gin.New()
		r.GET("/x", withRole(role), RequireRoles(models.RoleAdmin, models.RoleMozo), ok)
		assert.Equal(t, want, serve(r, http.MethodGet, "/x", nil).Code, role)
	}
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(1).RateLimit())
	r.GET("/x", ok)

	// burst is twice the rate
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/x", nil).Code)

	other := serve(r, http.MethodGet, "/x", map[string]string{"X-Forwarded-For": "10.0.0.9"})
	assert.Equal(t, http.StatusOK, other.Code, "buckets are per client IP")
}

func TestLoggerMiddlewareRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, http.MethodGet, "/x", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	w = serve(r, http.MethodGet, "/x", map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(true), CORSMiddlewares("https://salon.example"))
	r.GET("/x", ok)

	w := serve(r, http.MethodOptions, "/x", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://salon.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = serve(r, http.MethodGet, "/x", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}
