package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	UserContextKey  = "user"
	TokenCookieName = "token"
)

// RequireAuth resolves the bearer token (or the token cookie) to a stored user
// and places it in the context under UserContextKey.
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extractToken(ctx)
		if tokenString == "" {
			abortUnauthorized(ctx, "Not authorized, no token provided")
			return
		}

		claims, err := utils.ParseJWT(tokenString, initializers.Config.JWTSecret)
		if err != nil {
			abortUnauthorized(ctx, "Not authorized, token failed")
			return
		}

		var user models.User
		if err := initializers.DB.WithContext(ctx.Request.Context()).First(&user, "id = ?", claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortUnauthorized(ctx, "User not found, token invalid")
				return
			}
			slog.Error("auth user lookup failed", "userId", claims.UserID, "err", err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			return
		}

		ctx.Set(UserContextKey, user)
		ctx.Next()
	}
}

// CurrentUser returns the user placed in the context by RequireAuth.
func CurrentUser(ctx *gin.Context) (models.User, bool) {
	value, exists := ctx.Get(UserContextKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

func extractToken(ctx *gin.Context) string {
	if header := ctx.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := ctx.Cookie(TokenCookieName); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
}
