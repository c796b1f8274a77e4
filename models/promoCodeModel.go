package models

import (
	"strings"
	"time"
)

type PromoCode struct {
	Base
	Code            string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	DiscountPercent float64   `gorm:"not null" json:"discountPercent"`
	ExpiresAt       time.Time `gorm:"index;not null" json:"expiresAt"`
}

// IsActive reports whether the code can still be redeemed at now. The expiry
// instant itself is already too late.
func (p PromoCode) IsActive(now time.Time) bool {
	return p.ExpiresAt.After(now)
}

// NormalizeCode is the canonical stored form of a promo code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type CreatePromoCodeData struct {
	Code            string    `json:"code" binding:"required,max=32"`
	DiscountPercent float64   `json:"discountPercent" binding:"required,gte=1,lte=100"`
	ExpiresAt       time.Time `json:"expiresAt" binding:"required"`
}

type UpdatePromoCodeData struct {
	DiscountPercent *float64   `json:"discountPercent" binding:"omitempty,gte=1,lte=100"`
	ExpiresAt       *time.Time `json:"expiresAt"`
}

type ApplyPromoCodeData struct {
	Code string `json:"code" binding:"required"`
}
