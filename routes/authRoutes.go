package routes

import (
	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(router gin.IRouter) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/signin", controllers.Login)
		auth.POST("/logout", controllers.Logout)
		auth.GET("/me", middlewares.RequireAuth(), controllers.GetMe)
		auth.PATCH("/update-password", middlewares.RequireAuth(), controllers.UpdatePassword)
	}
}
