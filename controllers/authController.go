package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	msgEmailInUse            = "Email already in use"
	msgUsernameTaken         = "Username already taken"
	msgFailedToHashPassword  = "failed to hash password"
	msgInvalidCredentials    = "Invalid email or password"
	msgFailedToGenerateToken = "failed to generate token"
	msgOldPasswordIncorrect  = "Old password incorrect"
)

func generateJWT(user models.User) (string, error) {
	return utils.GenerateJWT(user.ID, user.Username, user.Role, initializers.Config.JWTSecret, initializers.Config.JWTExpiresIn)
}

func setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middlewares.TokenCookieName, token, maxAge, "/", "", initializers.Config.IsProduction(), true)
}

func recordExists(ctx *gin.Context, column, value string) (bool, error) {
	var count int64
	err := initializers.DB.WithContext(ctx.Request.Context()).
		Model(&models.User{}).
		Where(column+" = ?", value).
		Count(&count).Error
	return count > 0, err
}

// issueSession signs a token for user, sets the cookie and writes the response.
func issueSession(ctx *gin.Context, status int, user models.User) {
	token, err := generateJWT(user)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToGenerateToken, err)
		return
	}
	setTokenCookie(ctx, token, int(initializers.Config.JWTExpiresIn.Seconds()))
	sendJSONResponse(ctx, status, gin.H{"token": token, "user": user})
}

// Signup handles user registration
func Signup(ctx *gin.Context) {
	var signUpData models.SignupData
	if err := ctx.ShouldBindJSON(&signUpData); err != nil {
		respondWithBindError(ctx, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(signUpData.Email))
	username := strings.TrimSpace(signUpData.Username)

	exists, err := recordExists(ctx, "email", email)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}
	if exists {
		sendErrorResponse(ctx, http.StatusBadRequest, msgEmailInUse)
		return
	}

	exists, err = recordExists(ctx, "username", username)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}
	if exists {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUsernameTaken)
		return
	}

	hashedPassword, err := utils.HashPassword(signUpData.Password)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToHashPassword, err)
		return
	}

	// Admins are only ever created by seeding or directly in the database.
	user := models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}
	if err := initializers.DB.WithContext(ctx.Request.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent signup took the email or username after the checks above.
			message := msgUsernameTaken
			if taken, _ := recordExists(ctx, "email", email); taken {
				message = msgEmailInUse
			}
			sendErrorResponse(ctx, http.StatusBadRequest, message)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	issueSession(ctx, http.StatusCreated, user)
}

// Login handles user authentication
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	var user models.User
	err := initializers.DB.WithContext(ctx.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(loginData.Email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	if err := utils.ComparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	issueSession(ctx, http.StatusOK, user)
}

// Logout drops the auth cookie. Bearer tokens are stateless and simply discarded by the client.
func Logout(ctx *gin.Context) {
	setTokenCookie(ctx, "", -1)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Logged out"})
}

func GetMe(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}

func UpdatePassword(ctx *gin.Context) {
	var passwordData models.UpdatePasswordData
	if err := ctx.ShouldBindJSON(&passwordData); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	user, _ := middlewares.CurrentUser(ctx)
	if err := utils.ComparePasswords(user.Password, passwordData.OldPassword); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgOldPasswordIncorrect)
		return
	}

	hashedPassword, err := utils.HashPassword(passwordData.NewPassword)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToHashPassword, err)
		return
	}

	if err := initializers.DB.WithContext(ctx.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("password", hashedPassword).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "unable to update password", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Password updated successfully"})
}
