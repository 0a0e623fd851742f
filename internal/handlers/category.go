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

	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

type categoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	DisplayOrder *int   `json:"displayOrder"`
	IsActive     *bool  `json:"isActive"`
}

// GetCategories handles GET /api/categories. showAll=true includes inactive
// categories for the admin panel.
func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if c.Query("showAll") != "true" {
			filter["isActive"] = true
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("categories").Find(ctx, filter,
			options.Find().SetSort(bson.D{
				{Key: "displayOrder", Value: 1},
				{Key: "name", Value: 1},
			}))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
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

// GetFeaturedCategories handles GET /api/categories/featured: active
// categories that actually have active products.
func GetFeaturedCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		ids, err := db.Collection("products").Distinct(ctx, "category", bson.M{"isActive": true})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		cursor, err := db.Collection("categories").Find(ctx,
			bson.M{"_id": bson.M{"$in": ids}, "isActive": true},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
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

// GetCategoryByKey handles GET /api/categories/:id where :id may be a Mongo
// id or a slug. The payload carries a live product count.
func GetCategoryByKey(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ParseLookupKey(c.Param("id"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var category models.Category
		err := db.Collection("categories").FindOne(ctx, key.Filter("slug")).Decode(&category)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		count, err := db.Collection("products").CountDocuments(ctx, bson.M{
			"category": category.ID,
			"isActive": true,
		})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"category":      category,
				"productsCount": count,
			},
		})
	}
}

// CreateCategory handles POST /api/categories (admin). The slug is derived
// from the name.
func CreateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/categories"
		defer handlePanic(c, route)

		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		now := time.Now()
		category := models.Category{
			Name:        strings.TrimSpace(req.Name),
			Slug:        models.Slugify(req.Name),
			Description: req.Description,
			Image:       req.Image,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if req.DisplayOrder != nil {
			category.DisplayOrder = *req.DisplayOrder
		}
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("categories").InsertOne(ctx, category)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusBadRequest, "Category already exists")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			category.ID = id
		}

		respondData(c, http.StatusCreated, category)
	}
}

// UpdateCategory handles PUT /api/categories/:id (admin). Renaming recomputes
// the slug.
func UpdateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ParseLookupKey(c.Param("id"))

		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		update := bson.M{
			"name":        strings.TrimSpace(req.Name),
			"slug":        models.Slugify(req.Name),
			"description": req.Description,
			"image":       req.Image,
			"updatedAt":   time.Now(),
		}
		if req.DisplayOrder != nil {
			update["displayOrder"] = *req.DisplayOrder
		}
		if req.IsActive != nil {
			update["isActive"] = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var category models.Category
		err := db.Collection("categories").FindOneAndUpdate(
			ctx,
			key.Filter("slug"),
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&category)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusBadRequest, "Category already exists")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, category)
	}
}

// DeleteCategory handles DELETE /api/categories/:id (admin). A category with
// products keeps its products consistent by refusing the delete.
func DeleteCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ParseLookupKey(c.Param("id"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var category models.Category
		err := db.Collection("categories").FindOne(ctx, key.Filter("slug")).Decode(&category)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		count, err := db.Collection("products").CountDocuments(ctx, bson.M{"category": category.ID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if count > 0 {
			respondError(c, http.StatusBadRequest,
				"Cannot delete category with existing products. Move or delete products first.")
			return
		}

		if _, err := db.Collection("categories").DeleteOne(ctx, bson.M{"_id": category.ID}); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondMessage(c, http.StatusOK, "Category deleted successfully")
	}
}
