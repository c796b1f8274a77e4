package middlewares

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := initializers.OpenDatabase("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, initializers.Migrate(db))
	initializers.DB = db
	initializers.Config.JWTSecret = testSecret
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	router := gin.New()
	router.GET("/me", RequireAuth(), func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		require.True(t, ok)
		ctx.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	router.GET("/admin", RequireAuth(), RequireAdmin(), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	return router
}

func seedUser(t *testing.T, username, role string) string {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "x", Role: role}
	require.NoError(t, initializers.DB.Create(&user).Error)
	token, err := utils.GenerateJWT(user.ID, user.Username, user.Role, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	router := setupAuthRouter(t)
	token := seedUser(t, "john_doe", models.RoleUser)
	expired, err := utils.GenerateJWT(uuid.NewString(), "ghost", models.RoleUser, testSecret, -time.Minute)
	require.NoError(t, err)
	unknown, err := utils.GenerateJWT(uuid.NewString(), "ghost", models.RoleUser, testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{name: "no token", want: http.StatusUnauthorized},
		{name: "bearer token", header: "Bearer " + token, want: http.StatusOK},
		{name: "cookie token", cookie: token, want: http.StatusOK},
		{name: "header wins over cookie", header: "Bearer " + token, cookie: "garbage", want: http.StatusOK},
		{name: "non bearer scheme", header: "Basic " + token, want: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, want: http.StatusUnauthorized},
		{name: "unknown user", header: "Bearer " + unknown, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tt.cookie})
			}
			rec := serve(router, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"username":"john_doe"}`, rec.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	router := setupAuthRouter(t)
	userToken := seedUser(t, "john_doe", models.RoleUser)
	adminToken := seedUser(t, "admin", models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := serve(router, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Admin access required"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusNoContent, serve(router, req).Code)
}

func TestRequireAdmin_WithoutUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", RequireAdmin(), func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery(), RequestLogger())
	router.GET("/boom", func(ctx *gin.Context) { panic("boom") })

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, rec.Body.String())
}
