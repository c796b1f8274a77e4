package initializers

import (
	"context"
	"log/slog"
	"time"

	"github.com/Kariqs/storefront-api/utils"
	"github.com/redis/go-redis/v9"
)

// Cache stays nil when REDIS_ADDR is unset; utils.Cache treats nil as disabled.
var Cache *utils.Cache

func ConnectToCache() {
	if Config.RedisAddr == "" {
		slog.Info("product cache disabled")
		return
	}

	client := redis.NewClient(&redis.Options{Addr: Config.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable, product cache disabled", "addr", Config.RedisAddr, "err", err)
		_ = client.Close()
		return
	}

	Cache = utils.NewCache(client, "storefront:", Config.CacheTTL)
	slog.Info("connected to redis", "addr", Config.RedisAddr)
}
