package initializers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/utils"
	"gorm.io/gorm"
)

type seedUser struct {
	username, email, password, role string
}

var sampleUsers = []seedUser{
	{"admin", "admin@example.com", "admin123", models.RoleAdmin},
	{"john_doe", "john@example.com", "password123", models.RoleUser},
	{"jane_smith", "jane@example.com", "password123", models.RoleUser},
	{"test_user", "test@example.com", "password123", models.RoleUser},
}

var sampleProducts = []models.Product{
	{Name: "iPhone 15 Pro", Description: "Latest Apple smartphone with titanium design and A17 Pro chip", Price: 999, Category: "Phones", Stock: 25, Image: "https://images.unsplash.com/photo-1695048133142-1a20484d2569"},
	{Name: "MacBook Pro 16\"", Description: "Powerful laptop with M3 Max chip for professionals", Price: 2499, Category: "Laptops", Stock: 10, Image: "https://images.unsplash.com/photo-1517336714731-489689fd1ca8"},
	{Name: "AirPods Pro", Description: "Wireless earbuds with active noise cancellation", Price: 249, Category: "Audio", Stock: 50, Image: "https://images.unsplash.com/photo-1600294037681-c80b4cb5b434"},
	{Name: "iPad Air", Description: "10.9-inch tablet with M1 chip", Price: 599, Category: "Tablets", Stock: 30, Image: "https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0"},
	{Name: "Apple Watch Series 9", Description: "Advanced health and fitness tracker", Price: 399, Category: "Wearables", Stock: 40, Image: "https://images.unsplash.com/photo-1434494878577-86c23bcb06b9"},
	{Name: "Sony WH-1000XM5", Description: "Premium noise-canceling headphones", Price: 349, Category: "Audio", Stock: 35, Image: "https://images.unsplash.com/photo-1545127398-14699f92334b"},
	{Name: "Samsung Galaxy S24 Ultra", Description: "Android flagship with S Pen and AI features", Price: 1199, Category: "Phones", Stock: 20, Image: "https://images.unsplash.com/photo-1610945415295-d9bbf067e59c"},
	{Name: "Nintendo Switch OLED", Description: "Hybrid gaming console with vibrant OLED screen", Price: 349, Category: "Gaming", Stock: 15, Image: "https://images.unsplash.com/photo-1578303512597-81e6cc155b3e"},
}

type seedPromo struct {
	code    string
	percent float64
	days    int
}

var samplePromoCodes = []seedPromo{
	{"WELCOME10", 10, 90},
	{"SUMMER20", 20, 60},
	{"FLASH50", 50, 7},
	{"VIP30", 30, 180},
}

// SeedDatabase wipes every table and loads the demo data set.
func SeedDatabase(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Cart{}, &models.PromoCode{}, &models.Product{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}

		var users []models.User
		for _, u := range sampleUsers {
			hashed, err := utils.HashPassword(u.password)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", u.username, err)
			}
			users = append(users, models.User{Username: u.username, Email: u.email, Password: hashed, Role: u.role})
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("create users: %w", err)
		}

		products := make([]models.Product, len(sampleProducts))
		copy(products, sampleProducts)
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("create products: %w", err)
		}
		catalog := make(map[string]models.Product, len(products))
		for _, p := range products {
			catalog[p.ID] = p
		}

		now := time.Now().UTC()
		for _, p := range samplePromoCodes {
			promo := models.PromoCode{Code: p.code, DiscountPercent: p.percent, ExpiresAt: now.AddDate(0, 0, p.days)}
			if err := tx.Create(&promo).Error; err != nil {
				return fmt.Errorf("create promo code %s: %w", p.code, err)
			}
		}

		carts := []*models.Cart{models.NewCart(users[1].ID), models.NewCart(users[2].ID), models.NewCart(users[3].ID)}
		carts[0].AddItem(products[0].ID, 1)
		carts[0].AddItem(products[2].ID, 2)
		carts[0].ApplyPromoCode("WELCOME10", 10)
		carts[1].AddItem(products[1].ID, 1)
		carts[1].AddItem(products[3].ID, 1)
		carts[1].AddItem(products[5].ID, 1)
		carts[2].AddItem(products[6].ID, 1)
		for _, cart := range carts {
			cart.Recalculate(catalog)
			if err := tx.Create(cart).Error; err != nil {
				return fmt.Errorf("create cart: %w", err)
			}
		}

		slog.Info("database seeded",
			"users", len(users),
			"products", len(products),
			"promoCodes", len(samplePromoCodes),
			"carts", len(carts),
		)
		return nil
	})
}
