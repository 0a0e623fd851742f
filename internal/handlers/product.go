package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/classiccarrry/classic-carrry-backend/internal/cloudinary"
	"github.com/classiccarrry/classic-carrry-backend/internal/logging"
	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

type productRequest struct {
	SKU            string            `json:"id" binding:"required"`
	Name           string            `json:"name" binding:"required"`
	Price          float64           `json:"price" binding:"min=0"`
	Category       string            `json:"category" binding:"required"`
	MainImage      string            `json:"mainImage" binding:"required"`
	Images         []string          `json:"images"`
	Description    string            `json:"description"`
	Tag            string            `json:"tag"`
	Colors         []string          `json:"colors"`
	Sizes          []string          `json:"sizes"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Stock          *int              `json:"stock" binding:"required"`
	IsActive       *bool             `json:"isActive"`
	ProductType    string            `json:"productType"`
	IsFeatured     *bool             `json:"isFeatured"`
	IsHot          *bool             `json:"isHot"`
}

// resolveCategory looks up the category once so the product document can
// carry a denormalized categoryName.
func resolveCategory(ctx context.Context, db *mongo.Database, rawID string) (models.Category, error) {
	categoryID, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
	if err != nil {
		return models.Category{}, err
	}
	var category models.Category
	if err := db.Collection("categories").FindOne(ctx, bson.M{"_id": categoryID}).Decode(&category); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// GetProducts handles GET /api/products with catalog filters. showAll=true
// (admin panel) includes inactive products.
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		filter := bson.M{}
		if c.Query("showAll") != "true" {
			filter["isActive"] = true
		}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			if categoryID, err := primitive.ObjectIDFromHex(category); err == nil {
				filter["category"] = categoryID
			} else {
				filter["categoryName"] = category
			}
		}
		if productType := strings.TrimSpace(c.Query("productType")); productType != "" {
			filter["productType"] = productType
		}
		if c.Query("isFeatured") == "true" {
			filter["isFeatured"] = true
		}
		if c.Query("isHot") == "true" {
			filter["isHot"] = true
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"description": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, filter,
			options.Find().SetSort(bson.D{
				{Key: "isFeatured", Value: -1},
				{Key: "createdAt", Value: -1},
			}))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(products),
			"data":    products,
		})
	}
}

// GetHotProducts handles GET /api/products/hot, capped at 12 for the
// homepage strip.
func GetHotProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx,
			bson.M{"isActive": true, "isHot": true},
			options.Find().
				SetSort(bson.D{{Key: "createdAt", Value: -1}}).
				SetLimit(12),
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(products),
			"data":    products,
		})
	}
}

// GetProductsByCategory handles GET /api/products/category/:slug.
func GetProductsByCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var category models.Category
		err := db.Collection("categories").FindOne(ctx, bson.M{
			"slug":     c.Param("slug"),
			"isActive": true,
		}).Decode(&category)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		cursor, err := db.Collection("products").Find(ctx,
			bson.M{"category": category.ID, "isActive": true},
			options.Find().SetSort(bson.D{
				{Key: "isFeatured", Value: -1},
				{Key: "createdAt", Value: -1},
			}),
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(products),
			"category": gin.H{
				"name":        category.Name,
				"slug":        category.Slug,
				"description": category.Description,
				"image":       category.Image,
			},
			"data": products,
		})
	}
}

// GetProductByKey handles GET /api/products/:id where :id is a Mongo id
// (admin) or a SKU (storefront), resolved once into a lookup key.
func GetProductByKey(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ParseLookupKey(c.Param("id"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err := db.Collection("products").FindOne(ctx, key.Filter("id")).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, product)
	}
}

// CreateProduct handles POST /api/products (admin).
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		category, err := resolveCategory(ctx, db, req.Category)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Product category is required")
			return
		}

		now := time.Now()
		product := models.Product{
			SKU:            strings.TrimSpace(req.SKU),
			Name:           strings.TrimSpace(req.Name),
			Price:          req.Price,
			Category:       category.ID,
			CategoryName:   category.Name,
			MainImage:      req.MainImage,
			Images:         req.Images,
			Description:    req.Description,
			Tag:            req.Tag,
			Colors:         req.Colors,
			Sizes:          req.Sizes,
			Features:       req.Features,
			Specifications: req.Specifications,
			Stock:          *req.Stock,
			IsActive:       true,
			ProductType:    req.ProductType,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if product.ProductType == "" {
			product.ProductType = "general"
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}
		if req.IsFeatured != nil {
			product.IsFeatured = *req.IsFeatured
		}
		if req.IsHot != nil {
			product.IsHot = *req.IsHot
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusBadRequest, "Product ID already exists")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		respondData(c, http.StatusCreated, product)
	}
}

// UpdateProduct handles PUT /api/products/:id. Replaced Cloudinary images are
// destroyed best-effort after the document update.
func UpdateProduct(db *mongo.Database, images *cloudinary.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		key := ParseLookupKey(c.Param("id"))

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Product
		err := db.Collection("products").FindOne(ctx, key.Filter("id")).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		category, err := resolveCategory(ctx, db, req.Category)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Product category is required")
			return
		}

		update := bson.M{
			"id":             strings.TrimSpace(req.SKU),
			"name":           strings.TrimSpace(req.Name),
			"price":          req.Price,
			"category":       category.ID,
			"categoryName":   category.Name,
			"mainImage":      req.MainImage,
			"images":         req.Images,
			"description":    req.Description,
			"tag":            req.Tag,
			"colors":         req.Colors,
			"sizes":          req.Sizes,
			"features":       req.Features,
			"specifications": req.Specifications,
			"stock":          *req.Stock,
			"productType":    req.ProductType,
			"updatedAt":      time.Now(),
		}
		if req.IsActive != nil {
			update["isActive"] = *req.IsActive
		}
		if req.IsFeatured != nil {
			update["isFeatured"] = *req.IsFeatured
		}
		if req.IsHot != nil {
			update["isHot"] = *req.IsHot
		}

		var product models.Product
		findErr := db.Collection("products").FindOneAndUpdate(
			ctx,
			key.Filter("id"),
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&product)
		if findErr != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		cleanupReplacedImages(c, images, existing, product)

		respondData(c, http.StatusOK, product)
	}
}

// cleanupReplacedImages destroys hosted images that the update dropped.
// Failures only get logged: stale images are cheaper than failed updates.
func cleanupReplacedImages(c *gin.Context, images *cloudinary.Client, before, after models.Product) {
	if !images.Configured() {
		return
	}
	l := logging.From(c)

	removed := make([]string, 0)
	if before.MainImage != "" && before.MainImage != after.MainImage {
		removed = append(removed, before.MainImage)
	}
	kept := make(map[string]struct{}, len(after.Images))
	for _, img := range after.Images {
		kept[img] = struct{}{}
	}
	for _, img := range before.Images {
		if _, ok := kept[img]; !ok {
			removed = append(removed, img)
		}
	}

	for _, img := range removed {
		publicID := cloudinary.PublicIDFromURL(img)
		if publicID == "" {
			continue
		}
		if err := images.Destroy(c.Request.Context(), publicID); err != nil {
			l.Warn("failed to delete replaced image", "publicId", publicID, "error", err)
		}
	}
}

// DeleteProduct handles DELETE /api/products/:id (admin).
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ParseLookupKey(c.Param("id"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").DeleteOne(ctx, key.Filter("id"))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}

		respondMessage(c, http.StatusOK, "Product deleted successfully")
	}
}

// GetProductTypeCategories handles GET /api/products/categories/:productType,
// listing the distinct category ids in use for a product type.
func GetProductTypeCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productType := c.Param("productType")
		if productType != "cap" && productType != "wallet" {
			respondError(c, http.StatusBadRequest, `Invalid product type. Must be "cap" or "wallet"`)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		categories, err := db.Collection("products").Distinct(ctx, "category", bson.M{
			"productType": productType,
			"isActive":    true,
		})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(categories),
			"data":    categories,
		})
	}
}
