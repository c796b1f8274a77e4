package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	msgInvalidInput        = "Invalid input"
	msgValidationFailed    = "Validation failed"
	msgInternalServerError = "Internal server error"
)

func init() {
	// Report json field names rather than Go struct field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	data["success"] = status < http.StatusBadRequest
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// respondWithError sends message and, outside production, the underlying error.
func respondWithError(ctx *gin.Context, status int, message string, err error) {
	body := gin.H{"message": message}
	if err != nil {
		_ = ctx.Error(err)
		if status >= http.StatusInternalServerError {
			slog.Error(message, "path", ctx.Request.URL.Path, "err", err)
		}
		if !initializers.Config.IsProduction() {
			body["error"] = err.Error()
		}
	}
	sendJSONResponse(ctx, status, body)
}

// respondWithBindError answers 400 for a body that failed to bind.
func respondWithBindError(ctx *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
			"message": msgValidationFailed,
			"errors":  validationMessages(verrs),
		})
		return
	}
	sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
		"message": msgInvalidInput,
		"errors":  []string{err.Error()},
	})
}

func respondWithValidationErrors(ctx *gin.Context, errs []string) {
	sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
		"message": msgValidationFailed,
		"errors":  errs,
	})
}

func validationMessages(verrs validator.ValidationErrors) []string {
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), lengthUnit(fe)))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), lengthUnit(fe)))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "lte":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return messages
}

// lengthUnit qualifies min/max bounds that count characters rather than value.
func lengthUnit(fe validator.FieldError) string {
	if fe.Kind() == reflect.String {
		return " characters"
	}
	return ""
}
