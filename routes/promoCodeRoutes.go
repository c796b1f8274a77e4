package routes

import (
	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/gin-gonic/gin"
)

func PromoCodeRoutes(router gin.IRouter) {
	promoCodes := router.Group("/promo-codes")
	promoCodes.GET("/validate/:code", controllers.ValidatePromoCode)

	admin := promoCodes.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreatePromoCode)
		admin.GET("", controllers.GetPromoCodes)
		admin.GET("/:code", controllers.GetPromoCode)
		admin.PUT("/:code", controllers.UpdatePromoCode)
		admin.DELETE("/:code", controllers.DeletePromoCode)
	}
}
