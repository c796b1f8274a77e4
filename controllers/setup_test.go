package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/routes"
	"github.com/Kariqs/storefront-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

// setupServer points the package globals at a fresh in-memory database and
// returns the fully routed engine. Tests using it must not run in parallel.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := initializers.OpenDatabase("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, initializers.Migrate(db))

	initializers.DB = db
	initializers.Config = initializers.AppConfig{
		AppEnv:       "test",
		JWTSecret:    testJWTSecret,
		JWTExpiresIn: time.Hour,
	}
	initializers.Cache = nil
	initializers.Uploader = nil

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return routes.NewServer([]string{"http://localhost:5173"})
}

func doRequest(t *testing.T, server http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

type cartEnvelope struct {
	envelope
	Cart models.CartView `json:"cart"`
}

func createUser(t *testing.T, username, role string) (models.User, string) {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hashed,
		Role:     role,
	}
	require.NoError(t, initializers.DB.Create(&user).Error)

	token, err := utils.GenerateJWT(user.ID, user.Username, user.Role, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return user, token
}

func createProduct(t *testing.T, name, category string, price float64) models.Product {
	t.Helper()

	product := models.Product{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Category:    category,
		Stock:       10,
	}
	require.NoError(t, initializers.DB.Create(&product).Error)
	return product
}

func createPromoCode(t *testing.T, code string, percent float64, expiresAt time.Time) models.PromoCode {
	t.Helper()

	promo := models.PromoCode{Code: code, DiscountPercent: percent, ExpiresAt: expiresAt.UTC()}
	require.NoError(t, initializers.DB.Create(&promo).Error)
	return promo
}
