package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	msgPromoCodeNotFound = "Promo code not found"
	msgPromoCodeExists   = "Promo code already exists"
	msgExpiryInPast      = "expiresAt must be in the future"
	msgCodeRequired      = "code is required"
)

func findPromoCode(ctx *gin.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := initializers.DB.WithContext(ctx.Request.Context()).
		Where("code = ?", models.NormalizeCode(code)).
		First(&promo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// findActivePromoCode returns nil for codes that are unknown or already expired.
func findActivePromoCode(ctx *gin.Context, code string) (*models.PromoCode, error) {
	promo, err := findPromoCode(ctx, code)
	if err != nil || promo == nil {
		return nil, err
	}
	if !promo.IsActive(time.Now()) {
		return nil, nil
	}
	return promo, nil
}

// loadPromoCode answers the request itself when it returns ok == false.
func loadPromoCode(ctx *gin.Context) (*models.PromoCode, bool) {
	promo, err := findPromoCode(ctx, ctx.Param("code"))
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch promo code", err)
		return nil, false
	}
	if promo == nil {
		sendErrorResponse(ctx, http.StatusNotFound, msgPromoCodeNotFound)
		return nil, false
	}
	return promo, true
}

func ValidatePromoCode(ctx *gin.Context) {
	promo, err := findActivePromoCode(ctx, ctx.Param("code"))
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to validate promo code", err)
		return
	}
	if promo == nil {
		sendJSONResponse(ctx, http.StatusBadRequest, gin.H{"valid": false, "message": msgInvalidPromoCode})
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"valid":           true,
		"code":            promo.Code,
		"discountPercent": promo.DiscountPercent,
		"expiresAt":       promo.ExpiresAt,
	})
}

func CreatePromoCode(ctx *gin.Context) {
	var data models.CreatePromoCodeData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithBindError(ctx, err)
		return
	}
	code := models.NormalizeCode(data.Code)
	if code == "" {
		respondWithValidationErrors(ctx, []string{msgCodeRequired})
		return
	}
	if !data.ExpiresAt.After(time.Now()) {
		respondWithValidationErrors(ctx, []string{msgExpiryInPast})
		return
	}

	existing, err := findPromoCode(ctx, code)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create promo code", err)
		return
	}
	if existing != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgPromoCodeExists)
		return
	}

	promo := models.PromoCode{
		Code:            code,
		DiscountPercent: data.DiscountPercent,
		ExpiresAt:       data.ExpiresAt.UTC(),
	}
	if err := initializers.DB.WithContext(ctx.Request.Context()).Create(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgPromoCodeExists)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create promo code", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Promo code created", "promoCode": promo})
}

func GetPromoCodes(ctx *gin.Context) {
	query := initializers.DB.WithContext(ctx.Request.Context()).Model(&models.PromoCode{})

	now := time.Now().UTC()
	switch ctx.Query("active") {
	case "true":
		query = query.Where("expires_at > ?", now)
	case "false":
		query = query.Where("expires_at <= ?", now)
	}

	promoCodes := []models.PromoCode{}
	if err := query.Order("created_at DESC").Find(&promoCodes).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch promo codes", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"total": len(promoCodes), "promoCodes": promoCodes})
}

func GetPromoCode(ctx *gin.Context) {
	promo, ok := loadPromoCode(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"promoCode": promo})
}

func UpdatePromoCode(ctx *gin.Context) {
	promo, ok := loadPromoCode(ctx)
	if !ok {
		return
	}

	var data models.UpdatePromoCodeData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithBindError(ctx, err)
		return
	}
	if data.DiscountPercent != nil {
		promo.DiscountPercent = *data.DiscountPercent
	}
	if data.ExpiresAt != nil {
		if !data.ExpiresAt.After(time.Now()) {
			respondWithValidationErrors(ctx, []string{msgExpiryInPast})
			return
		}
		promo.ExpiresAt = data.ExpiresAt.UTC()
	}

	if err := initializers.DB.WithContext(ctx.Request.Context()).Save(promo).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update promo code", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Promo code updated", "promoCode": promo})
}

// DeletePromoCode leaves carts that already applied the code untouched.
func DeletePromoCode(ctx *gin.Context) {
	promo, ok := loadPromoCode(ctx)
	if !ok {
		return
	}

	if err := initializers.DB.WithContext(ctx.Request.Context()).Delete(promo).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete promo code", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Promo code deleted"})
}
