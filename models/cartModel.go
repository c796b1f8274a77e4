package models

import (
	"time"

	"github.com/Kariqs/storefront-api/utils"
	"gorm.io/datatypes"
)

// MaxItemQuantity bounds the quantity of a single cart line.
const MaxItemQuantity = 999

type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is stored as a single row; its items live in a JSON column so the
// whole cart reads and writes as one document.
type Cart struct {
	Base
	UserID          string                        `gorm:"size:36;uniqueIndex;not null" json:"user"`
	Items           datatypes.JSONSlice[CartItem] `json:"items"`
	PromoCode       string                        `gorm:"size:32" json:"promoCode"`
	DiscountPercent float64                       `json:"discountPercent"`
	Subtotal        float64                       `json:"subtotal"`
	DiscountAmount  float64                       `json:"discountAmount"`
	Total           float64                       `json:"total"`
}

func NewCart(userID string) *Cart {
	return &Cart{UserID: userID, Items: datatypes.JSONSlice[CartItem]{}}
}

// ProductIDs returns the product references held by the cart, in order.
func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func (c *Cart) indexOf(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// HasItem reports whether productID is one of the cart's lines.
func (c *Cart) HasItem(productID string) bool {
	return c.indexOf(productID) >= 0
}

// AddItem accumulates quantity onto an existing line or appends a new one.
// It returns false, leaving the cart untouched, when the line would end up
// outside 1..MaxItemQuantity.
func (c *Cart) AddItem(productID string, quantity int) bool {
	if quantity < 1 || quantity > MaxItemQuantity {
		return false
	}
	if i := c.indexOf(productID); i >= 0 {
		if c.Items[i].Quantity > MaxItemQuantity-quantity {
			return false
		}
		c.Items[i].Quantity += quantity
		return true
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
	return true
}

// SetItemQuantity overwrites the quantity of an existing line. It returns
// false when the product is not in the cart.
func (c *Cart) SetItemQuantity(productID string, quantity int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Items[i].Quantity = quantity
	return true
}

// RemoveItem drops the line for productID. It returns false, leaving the
// items untouched, when there is no such line.
func (c *Cart) RemoveItem(productID string) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

func (c *Cart) ApplyPromoCode(code string, discountPercent float64) {
	c.PromoCode = code
	c.DiscountPercent = discountPercent
}

func (c *Cart) RemovePromoCode() {
	c.PromoCode = ""
	c.DiscountPercent = 0
}

// Clear empties the cart and forgets any promo code.
func (c *Cart) Clear() {
	c.Items = datatypes.JSONSlice[CartItem]{}
	c.RemovePromoCode()
	c.Subtotal, c.DiscountAmount, c.Total = 0, 0, 0
}

// Recalculate drops every line whose product is missing from products, then
// recomputes the monetary fields from the remaining lines. It returns the
// number of lines dropped.
func (c *Cart) Recalculate(products map[string]Product) int {
	kept := make(datatypes.JSONSlice[CartItem], 0, len(c.Items))
	lines := make([]utils.LineItem, 0, len(c.Items))
	for _, item := range c.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		kept = append(kept, item)
		lines = append(lines, utils.LineItem{UnitPrice: product.Price, Quantity: item.Quantity})
	}
	dropped := len(c.Items) - len(kept)
	c.Items = kept

	totals := utils.CalculateTotals(lines, c.DiscountPercent)
	c.Subtotal = totals.Subtotal
	c.DiscountAmount = totals.DiscountAmount
	c.Total = totals.Total
	return dropped
}

// CartLine is a cart item with its product resolved for responses.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type CartView struct {
	ID              string     `json:"id,omitempty"`
	UserID          string     `json:"user"`
	Items           []CartLine `json:"items"`
	PromoCode       string     `json:"promoCode"`
	DiscountPercent float64    `json:"discountPercent"`
	Subtotal        float64    `json:"subtotal"`
	DiscountAmount  float64    `json:"discountAmount"`
	Total           float64    `json:"total"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// View resolves the cart's lines against products. Call Recalculate with the
// same map first so every line has a product.
func (c *Cart) View(products map[string]Product) CartView {
	view := CartView{
		ID:              c.ID,
		UserID:          c.UserID,
		Items:           make([]CartLine, 0, len(c.Items)),
		PromoCode:       c.PromoCode,
		DiscountPercent: c.DiscountPercent,
		Subtotal:        c.Subtotal,
		DiscountAmount:  c.DiscountAmount,
		Total:           c.Total,
	}
	if !c.UpdatedAt.IsZero() {
		updatedAt := c.UpdatedAt
		view.UpdatedAt = &updatedAt
	}
	for _, item := range c.Items {
		if product, ok := products[item.ProductID]; ok {
			view.Items = append(view.Items, CartLine{Product: product, Quantity: item.Quantity})
		}
	}
	return view
}

type AddToCartData struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"omitempty,max=999"`
}

type UpdateCartItemData struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required,max=999"`
}
