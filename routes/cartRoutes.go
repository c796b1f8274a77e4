package routes

import (
	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(router gin.IRouter) {
	cart := router.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("", controllers.AddToCart)
		cart.PUT("", controllers.UpdateCartItem)
		cart.DELETE("", controllers.ClearCart)
		cart.POST("/promo", controllers.ApplyPromoCode)
		cart.DELETE("/promo", controllers.RemovePromoCode)
		cart.DELETE("/:productId", controllers.RemoveFromCart)
	}
}
