package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/Kariqs/storefront-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	msgCartNotFound         = "Cart not found"
	msgProductNotInCart     = "Product not found in cart"
	msgInvalidQuantity      = "Quantity must be at least 1"
	msgInvalidPromoCode     = "Invalid or expired promo code"
	msgFailedToFetchCart    = "Failed to fetch cart"
	msgFailedToSaveCart     = "Failed to save cart"
	msgFailedToLoadProducts = "Failed to load cart products"
)

var msgQuantityTooLarge = fmt.Sprintf("Quantity must be at most %d", models.MaxItemQuantity)

// findCart returns the caller's cart, or nil when they have none yet.
func findCart(ctx *gin.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := initializers.DB.WithContext(ctx.Request.Context()).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// loadCart answers the request itself when it returns ok == false.
func loadCart(ctx *gin.Context, createIfMissing bool) (*models.Cart, bool) {
	user, _ := middlewares.CurrentUser(ctx)
	cart, err := findCart(ctx, user.ID)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToFetchCart, err)
		return nil, false
	}
	if cart == nil {
		if !createIfMissing {
			sendErrorResponse(ctx, http.StatusNotFound, msgCartNotFound)
			return nil, false
		}
		cart = models.NewCart(user.ID)
	}
	return cart, true
}

// refreshCart prunes lines whose product is gone and recomputes the totals.
func refreshCart(ctx *gin.Context, cart *models.Cart) (map[string]models.Product, error) {
	products, err := loadProducts(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	if dropped := cart.Recalculate(products); dropped > 0 {
		slog.Info("dropped unavailable products from cart", "cartId", cart.ID, "dropped", dropped)
	}
	return products, nil
}

func saveCart(ctx *gin.Context, cart *models.Cart) error {
	return initializers.DB.WithContext(ctx.Request.Context()).Save(cart).Error
}

// refreshAndRespond recomputes, persists and writes the cart.
func refreshAndRespond(ctx *gin.Context, cart *models.Cart, message string) {
	products, err := refreshCart(ctx, cart)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToLoadProducts, err)
		return
	}
	if err := saveCart(ctx, cart); err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToSaveCart, err)
		return
	}
	body := gin.H{"cart": cart.View(products)}
	if message != "" {
		body["message"] = message
	}
	sendJSONResponse(ctx, http.StatusOK, body)
}

func GetCart(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)
	cart, err := findCart(ctx, user.ID)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToFetchCart, err)
		return
	}
	if cart == nil {
		// Nothing is persisted until the first write.
		sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": models.NewCart(user.ID).View(nil)})
		return
	}
	refreshAndRespond(ctx, cart, "")
}

func AddToCart(ctx *gin.Context) {
	var data models.AddToCartData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithBindError(ctx, err)
		return
	}
	quantity := 1
	if data.Quantity != nil {
		quantity = *data.Quantity
	}
	if quantity < 1 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidQuantity)
		return
	}

	if _, ok := findProduct(ctx, data.ProductID); !ok {
		return
	}

	cart, ok := loadCart(ctx, true)
	if !ok {
		return
	}
	if !cart.AddItem(data.ProductID, quantity) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgQuantityTooLarge)
		return
	}
	refreshAndRespond(ctx, cart, "Product added to cart")
}

func UpdateCartItem(ctx *gin.Context) {
	var data models.UpdateCartItemData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithBindError(ctx, err)
		return
	}
	if *data.Quantity < 1 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidQuantity)
		return
	}

	cart, ok := loadCart(ctx, false)
	if !ok {
		return
	}

	products, err := refreshCart(ctx, cart)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToLoadProducts, err)
		return
	}

	if !cart.SetItemQuantity(data.ProductID, *data.Quantity) {
		// Keep the pruning even though the update itself failed.
		if err := saveCart(ctx, cart); err != nil {
			respondWithError(ctx, http.StatusInternalServerError, msgFailedToSaveCart, err)
			return
		}
		sendErrorResponse(ctx, http.StatusNotFound, msgProductNotInCart)
		return
	}

	cart.Recalculate(products)
	if err := saveCart(ctx, cart); err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToSaveCart, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart updated", "cart": cart.View(products)})
}

func RemoveFromCart(ctx *gin.Context) {
	productID := ctx.Param("productId")

	cart, ok := loadCart(ctx, false)
	if !ok {
		return
	}
	if !cart.RemoveItem(productID) {
		sendErrorResponse(ctx, http.StatusNotFound, msgProductNotInCart)
		return
	}
	refreshAndRespond(ctx, cart, "Product removed from cart")
}

func ClearCart(ctx *gin.Context) {
	cart, ok := loadCart(ctx, true)
	if !ok {
		return
	}
	cart.Clear()
	refreshAndRespond(ctx, cart, "Cart cleared")
}

func ApplyPromoCode(ctx *gin.Context) {
	var data models.ApplyPromoCodeData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	promo, err := findActivePromoCode(ctx, data.Code)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to validate promo code", err)
		return
	}
	if promo == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidPromoCode)
		return
	}

	cart, ok := loadCart(ctx, true)
	if !ok {
		return
	}
	cart.ApplyPromoCode(promo.Code, promo.DiscountPercent)
	refreshAndRespond(ctx, cart, "Promo code applied")
}

func RemovePromoCode(ctx *gin.Context) {
	cart, ok := loadCart(ctx, false)
	if !ok {
		return
	}
	cart.RemovePromoCode()
	refreshAndRespond(ctx, cart, "Promo code removed")
}
