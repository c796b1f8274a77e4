package controllers_test

import (
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getCart(t *testing.T, server http.Handler, token string) models.CartView {
	t.Helper()
	rec := doRequest(t, server, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[cartEnvelope](t, rec).Cart
}

func addToCart(t *testing.T, server http.Handler, token, productID string, quantity int) models.CartView {
	t.Helper()
	rec := doRequest(t, server, http.MethodPost, "/api/cart", token, gin.H{"productId": productID, "quantity": quantity})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[cartEnvelope](t, rec).Cart
}

func TestCart_RequiresAuth(t *testing.T) {
	server := setupServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCart_Empty(t *testing.T) {
	server := setupServer(t)
	user, token := createUser(t, "shopper", models.RoleUser)

	cart := getCart(t, server, token)

	assert.Equal(t, user.ID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
	assert.Zero(t, cart.Total)

	var count int64
	require.NoError(t, initializers.DB.Model(&models.Cart{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddToCart_Accumulates(t *testing.T) {
	server := setupServer(t)
	_, token := createUser(t, "shopper", models.RoleUser)
	product := createProduct(t, "Phone", "Phones", 100)

	addToCart(t, server, token, product.ID, 2)

	rec := doRequest(t, server, http.MethodPost, "/api/cart", token, gin.H{"productId": product.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeBody[cartEnvelope](t, rec).Cart

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "Phone", cart.Items[0].Product.Name)
	assert.Equal(t, 300.0, cart.Subtotal)
	assert.Equal(t, 300.0, cart.Total)
}

func TestAddToCart_Rejects(t *testing.T) {
	server := setupServer(t)
	_, token := createUser(t, "shopper", models.RoleUser)
	product := createProduct(t, "Phone", "Phones", 100)

	rec := doRequest(t, server, http.MethodPost, "/api/cart", token, gin.H{"productId": product.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/cart", token, gin.H{"productId": "missing", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/cart", token, gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"productId is required"}, decodeBody[envelope](t, rec).Errors)
}

func TestAddToCart_QuantityLimit(t *testing.T) {
	server := setupServer(t)
	user, token := createUser(t, "shopper", models.RoleUser)
	product := createProduct(t, "Phone", "Phones", 100)
	addToCart(t, server, token, product.ID, 1)

	rec := doRequest(t, server, http.MethodPost, "/api/cart", token, gin.H{"productId": product.ID, "quantity": math.MaxInt64})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"quantity must be at most 999"}, decodeBody[envelope](t, rec).Errors)

	rec = doRequest(t, server, http.MethodPost, "/api/cart", token, gin.H{"productId": product.ID, "quantity": models.MaxItemQuantity})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Quantity must be at most 999", decodeBody[envelope](t, rec).Message)

	var stored models.Cart
	require.NoError(t, initializers.DB.First(&stored, "user_id = ?", user.ID).Error)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 1, stored.Items[0].Quantity)
	assert.Equal(t, 100.0, stored.Total)

	cart := addToCart(t, server, token, product.ID, models.MaxItemQuantity-1)
	assert.Equal(t, models.MaxItemQuantity, cart.Items[0].Quantity)
	assert.Equal(t, 99900.0, cart.Total)

	rec = doRequest(t, server, http.MethodPut, "/api/cart", token, gin.H{"productId": product.ID, "quantity": models.MaxItemQuantity + 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_TotalsWithPromoCode(t *testing.T) {
	server := setupServer(t)
	_, token := createUser(t, "shopper", models.RoleUser)
	phone := createProduct(t, "Phone", "Phones", 100)
	cover := createProduct(t, "Cover", "Accessories", 50)
	createPromoCode(t, "WELCOME10", 10, time.Now().Add(24*time.Hour))

	addToCart(t, server, token, phone.ID, 2)
	addToCart(t, server, token, cover.ID, 1)

	rec := doRequest(t, server, http.MethodPost, "/api/cart/promo", token, gin.H{"code": "welcome10"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decodeBody[cartEnvelope](t, rec).Cart

	assert.Equal(t, "WELCOME10", cart.PromoCode)
	assert.Equal(t, 10.0, cart.DiscountPercent)
	assert.Equal(t, 250.0, cart.Subtotal)
	assert.Equal(t, 25.0, cart.DiscountAmount)
	assert.Equal(t, 225.0, cart.Total)

	rec = doRequest(t, server, http.MethodDelete, "/api/cart/promo", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart = decodeBody[cartEnvelope](t, rec).Cart
	assert.Empty(t, cart.PromoCode)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 250.0, cart.Total)
}

func TestApplyPromoCode_Rejects(t *testing.T) {
	server := setupServer(t)
	_, token := createUser(t, "shopper", models.RoleUser)
	product := createProduct(t, "Phone", "Phones", 100)
	createPromoCode(t, "OLD20", 20, time.Now().Add(-time.Hour))
	addToCart(t, server, token, product.ID, 1)

	for _, code := range []string{"OLD20", "NOPE"} {
		rec := doRequest(t, server, http.MethodPost, "/api/cart/promo", token, gin.H{"code": code})
		assert.Equal(t, http.StatusBadRequest, rec.Code, code)
		assert.Equal(t, "Invalid or expired promo code", decodeBody[envelope](t, rec).Message)
	}

	cart := getCart(t, server, token)
	assert.Empty(t, cart.PromoCode)
	assert.Equal(t, 100.0, cart.Total)
}

func TestUpdateCartItem(t *testing.T) {
	server := setupServer(t)
	_, token := createUser(t, "shopper", models.RoleUser)
	product := createProduct(t, "Phone", "Phones", 100)

	rec := doRequest(t, server, http.MethodPut, "/api/cart", token, gin.H{"productId": product.ID, "quantity": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cart not found", decodeBody[envelope](t, rec).Message)

	addToCart(t, server, token, product.ID, 1)

	rec = doRequest(t, server, http.MethodPut, "/api/cart", token, gin.H{"productId": product.ID, "quantity": 4})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decodeBody[cartEnvelope](t, rec).Cart
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, 400.0, cart.Total)

	rec = doRequest(t, server, http.MethodPut, "/api/cart", token, gin.H{"productId": product.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCartItem_AbsentProductPrunesCart(t *testing.T) {
	server := setupServer(t)
	user, token := createUser(t, "shopper", models.RoleUser)
	phone := createProduct(t, "Phone", "Phones", 100)
	cover := createProduct(t, "Cover", "Accessories", 50)
	addToCart(t, server, token, phone.ID, 1)
	addToCart(t, server, token, cover.ID, 1)
	require.NoError(t, initializers.DB.Delete(&cover).Error)

	rec := doRequest(t, server, http.MethodPut, "/api/cart", token, gin.H{"productId": cover.ID, "quantity": 3})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var stored models.Cart
	require.NoError(t, initializers.DB.First(&stored, "user_id = ?", user.ID).Error)
	assert.Equal(t, []string{phone.ID}, stored.ProductIDs())
	assert.Equal(t, 100.0, stored.Total)
}

func TestRemoveFromCart(t *testing.T) {
	server := setupServer(t)
	_, token := createUser(t, "shopper", models.RoleUser)
	phone := createProduct(t, "Phone", "Phones", 100)
	cover := createProduct(t, "Cover", "Accessories", 50)

	rec := doRequest(t, server, http.MethodDelete, "/api/cart/"+phone.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cart not found", decodeBody[envelope](t, rec).Message)

	addToCart(t, server, token, phone.ID, 1)

	rec = doRequest(t, server, http.MethodDelete, "/api/cart/"+cover.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found in cart", decodeBody[envelope](t, rec).Message)
	assert.Len(t, getCart(t, server, token).Items, 1)

	rec = doRequest(t, server, http.MethodDelete, "/api/cart/"+phone.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeBody[cartEnvelope](t, rec).Cart
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestGetCart_DropsDeletedProducts(t *testing.T) {
	server := setupServer(t)
	_, token := createUser(t, "shopper", models.RoleUser)
	_, adminToken := createUser(t, "admin", models.RoleAdmin)
	phone := createProduct(t, "Phone", "Phones", 100)
	cover := createProduct(t, "Cover", "Accessories", 50)
	addToCart(t, server, token, phone.ID, 1)
	addToCart(t, server, token, cover.ID, 2)

	rec := doRequest(t, server, http.MethodDelete, "/api/products/"+cover.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cart := getCart(t, server, token)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, phone.ID, cart.Items[0].Product.ID)
	assert.Equal(t, 100.0, cart.Subtotal)
	assert.Equal(t, 100.0, cart.Total)
}

func TestClearCart(t *testing.T) {
	server := setupServer(t)
	_, token := createUser(t, "shopper", models.RoleUser)
	product := createProduct(t, "Phone", "Phones", 100)
	createPromoCode(t, "SUMMER20", 20, time.Now().Add(time.Hour))
	addToCart(t, server, token, product.ID, 3)
	rec := doRequest(t, server, http.MethodPost, "/api/cart/promo", token, gin.H{"code": "SUMMER20"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodDelete, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeBody[cartEnvelope](t, rec).Cart

	assert.Empty(t, cart.Items)
	assert.Empty(t, cart.PromoCode)
	assert.Zero(t, cart.DiscountPercent)
	assert.Zero(t, cart.Subtotal)
	assert.Zero(t, cart.Total)
}

func TestCart_IsolatedPerUser(t *testing.T) {
	server := setupServer(t)
	_, first := createUser(t, "first", models.RoleUser)
	_, second := createUser(t, "second", models.RoleUser)
	product := createProduct(t, "Phone", "Phones", 100)

	addToCart(t, server, first, product.ID, 1)

	assert.Len(t, getCart(t, server, first).Items, 1)
	assert.Empty(t, getCart(t, server, second).Items)
}
