package controllers

import (
	"net/http"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Storefront API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/api/auth/signup" - Create user account
- POST "/api/auth/signin" - Access user account
- POST "/api/auth/logout" - Drop the session cookie
- GET "/api/auth/me" - Current user profile
- PATCH "/api/auth/update-password" - Change password

PRODUCT
- GET "/api/products" - List products (page, limit, search, category)
- GET "/api/products/:id" - Get product by ID
- POST "/api/products" - Create product (admin)
- PUT "/api/products/:id" - Update product (admin)
- DELETE "/api/products/:id" - Delete product (admin)
- POST "/api/products/:id/image" - Upload product image (admin)

CART
- GET "/api/cart" - Get cart with totals
- POST "/api/cart" - Add product to cart
- PUT "/api/cart" - Set product quantity
- DELETE "/api/cart/:productId" - Remove product from cart
- DELETE "/api/cart" - Clear cart
- POST "/api/cart/promo" - Apply promo code
- DELETE "/api/cart/promo" - Remove promo code

PROMO CODES
- GET "/api/promo-codes/validate/:code" - Check a promo code
- POST "/api/promo-codes" - Create promo code (admin)
- GET "/api/promo-codes" - List promo codes (admin)
- GET "/api/promo-codes/:code" - Get promo code (admin)
- PUT "/api/promo-codes/:code" - Update promo code (admin)
- DELETE "/api/promo-codes/:code" - Delete promo code (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

// HealthCheck reports whether the database and, when enabled, the cache answer.
func HealthCheck(ctx *gin.Context) {
	sqlDB, err := initializers.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		respondWithError(ctx, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	if err := initializers.Cache.Ping(ctx.Request.Context()); err != nil {
		respondWithError(ctx, http.StatusServiceUnavailable, "Cache unavailable", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"status": "ok"})
}
