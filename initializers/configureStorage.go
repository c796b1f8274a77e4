package initializers

import (
	"context"
	"log/slog"

	"github.com/Kariqs/storefront-api/utils"
)

// Uploader stays nil when S3_BUCKET is unset and image uploads answer 503.
var Uploader utils.ImageUploader

func ConfigureStorage() {
	if Config.S3Bucket == "" {
		slog.Info("image uploads disabled")
		return
	}

	uploader, err := utils.NewS3Uploader(context.Background(), Config.S3Bucket)
	if err != nil {
		slog.Warn("image uploads disabled", "err", err)
		return
	}
	Uploader = uploader
	slog.Info("image uploads enabled", "bucket", Config.S3Bucket)
}
