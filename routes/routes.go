package routes

import (
	"time"

	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewServer builds the engine with the shared middleware stack and every route.
func NewServer(allowOrigins []string) *gin.Engine {
	server := gin.New()
	server.Use(middlewares.Recovery(), middlewares.RequestLogger())
	// cors rejects an empty origin list, so no origins means same-origin only.
	if len(allowOrigins) > 0 {
		server.Use(cors.New(cors.Config{
			AllowOrigins:     allowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	RegisterRoutes(server)
	return server
}

// RegisterRoutes mounts every API route on server.
func RegisterRoutes(server *gin.Engine) {
	DefaultRoutes(server)

	api := server.Group("/api")
	AuthRoutes(api)
	ProductRoutes(api)
	CartRoutes(api)
	PromoCodeRoutes(api)
}
