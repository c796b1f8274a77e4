package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	msgProductNotFound = "Product not found"
)

func productCacheKey(id string) string {
	return "product:" + id
}

func invalidateProduct(ctx *gin.Context, id string) {
	if err := initializers.Cache.Delete(ctx.Request.Context(), productCacheKey(id)); err != nil {
		slog.Warn("product cache invalidation failed", "productId", id, "err", err)
	}
}

// Concurrent cache misses for one product share a single database read.
var productLoads singleflight.Group

func queryProduct(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	err := initializers.DB.WithContext(ctx).First(&product, "id = ?", id).Error
	return product, err
}

func respondWithProductError(ctx *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		return
	}
	respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
}

// findProduct loads a live product, answering 404/500 itself when it cannot.
func findProduct(ctx *gin.Context, id string) (models.Product, bool) {
	product, err := queryProduct(ctx.Request.Context(), id)
	if err != nil {
		respondWithProductError(ctx, err)
		return product, false
	}
	return product, true
}

func queryInt(ctx *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(ctx.Query(key))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func GetProducts(ctx *gin.Context) {
	page := queryInt(ctx, "page", 1)
	limit := min(queryInt(ctx, "limit", defaultPageSize), maxPageSize)

	query := initializers.DB.WithContext(ctx.Request.Context()).Model(&models.Product{})

	if search := strings.ToLower(strings.TrimSpace(ctx.Query("search"))); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern, pattern)
	}
	if category := strings.TrimSpace(ctx.Query("category")); category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(category))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", err)
		return
	}

	products := []models.Product{}
	if err := query.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&products).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", err)
		return
	}

	pages := int(math.Ceil(float64(total) / float64(limit)))
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"products":    products,
		"total":       total,
		"pages":       pages,
		"currentPage": page,
		"hasNext":     page < pages,
		"hasPrev":     page > 1,
	})
}

func GetProduct(ctx *gin.Context) {
	id := ctx.Param("id")

	var product models.Product
	hit, err := initializers.Cache.Get(ctx.Request.Context(), productCacheKey(id), &product)
	if err != nil {
		slog.Warn("product cache read failed", "productId", id, "err", err)
	}
	if !hit {
		// Detached so one caller's cancellation does not fail the others sharing the load.
		loadCtx := context.WithoutCancel(ctx.Request.Context())
		value, err, _ := productLoads.Do(id, func() (any, error) {
			return queryProduct(loadCtx, id)
		})
		if err != nil {
			respondWithProductError(ctx, err)
			return
		}
		product = value.(models.Product)
		if err := initializers.Cache.Set(ctx.Request.Context(), productCacheKey(id), product); err != nil {
			slog.Warn("product cache write failed", "productId", id, "err", err)
		}
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"product": product})
}

func CreateProduct(ctx *gin.Context) {
	var input models.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	var product models.Product
	input.Apply(&product)
	if errs := product.Validate(); len(errs) > 0 {
		respondWithValidationErrors(ctx, errs)
		return
	}

	if err := initializers.DB.WithContext(ctx.Request.Context()).Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

func UpdateProduct(ctx *gin.Context) {
	product, ok := findProduct(ctx, ctx.Param("id"))
	if !ok {
		return
	}

	var input models.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithBindError(ctx, err)
		return
	}

	input.Apply(&product)
	if errs := product.Validate(); len(errs) > 0 {
		respondWithValidationErrors(ctx, errs)
		return
	}

	if err := initializers.DB.WithContext(ctx.Request.Context()).Save(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", err)
		return
	}
	invalidateProduct(ctx, product.ID)

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

// DeleteProduct soft-deletes; carts holding the product drop it on their next read.
func DeleteProduct(ctx *gin.Context) {
	product, ok := findProduct(ctx, ctx.Param("id"))
	if !ok {
		return
	}

	if err := initializers.DB.WithContext(ctx.Request.Context()).Delete(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete product", err)
		return
	}
	invalidateProduct(ctx, product.ID)

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted", "product": product})
}

func UploadProductImage(ctx *gin.Context) {
	if initializers.Uploader == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	product, ok := findProduct(ctx, ctx.Param("id"))
	if !ok {
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No image uploaded", err)
		return
	}

	f, err := file.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Unable to read image", err)
		return
	}
	defer f.Close()

	// Unique key so re-uploads never overwrite each other.
	key := fmt.Sprintf("products/%s-%s-%s", product.ID, time.Now().Format("20060102150405"), filepath.Base(file.Filename))
	url, err := initializers.Uploader.Upload(ctx.Request.Context(), key, file.Header.Get("Content-Type"), f)
	if err != nil {
		respondWithError(ctx, http.StatusBadGateway, "Failed to upload image", err)
		return
	}

	if err := initializers.DB.WithContext(ctx.Request.Context()).Model(&product).Update("image", url).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to save image", err)
		return
	}
	product.Image = url
	invalidateProduct(ctx, product.ID)

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Image uploaded", "product": product})
}

// loadProducts fetches the live products among ids, keyed by id.
func loadProducts(ctx *gin.Context, ids []string) (map[string]models.Product, error) {
	products := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	var found []models.Product
	if err := initializers.DB.WithContext(ctx.Request.Context()).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	for _, product := range found {
		products[product.ID] = product
	}
	return products, nil
}
