package initializers

import (
	"log/slog"
	"os"

	"github.com/Kariqs/storefront-api/models"
	"gorm.io/gorm"
)

func SyncDatabase() {
	if err := Migrate(DB); err != nil {
		slog.Error("database sync failed", "err", err)
		os.Exit(1)
	}
	slog.Info("Database synced successfully.")
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Product{}, &models.Cart{}, &models.PromoCode{})
}
