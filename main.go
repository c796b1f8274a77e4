package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/routes"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func init() {
	initializers.LoadEnv()
	initializers.InitLogger()
	initializers.ConnectToDB()
	initializers.SyncDatabase()
}

func main() {
	seed := flag.Bool("seed", false, "reset the database to the sample data set and exit")
	flag.Parse()

	if *seed {
		if err := initializers.SeedDatabase(initializers.DB); err != nil {
			slog.Error("seeding failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if initializers.Config.JWTSecret == "" {
		slog.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	initializers.ConnectToCache()
	initializers.ConfigureStorage()

	if initializers.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:              ":" + initializers.Config.Port,
		Handler:           routes.NewServer(initializers.Config.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
			"cache": func(ctx context.Context) error {
				return initializers.Cache.Close()
			},
			"database": func(ctx context.Context) error {
				return initializers.CloseDB()
			},
		},
	)

	exitCode := <-wait
	slog.Info("server exited", "code", exitCode)
	os.Exit(exitCode)
}
