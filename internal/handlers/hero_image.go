package handlers

import (
	"context"
	"net/http"
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

type heroImageRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image" binding:"required"`
	Link     string `json:"link"`
	Order    *int   `json:"order"`
	IsActive *bool  `json:"isActive"`
}

// GetActiveHeroImages handles GET /api/hero-images: the public carousel,
// sorted by display order.
func GetActiveHeroImages(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("hero_images").Find(ctx,
			bson.M{"isActive": true},
			options.Find().SetSort(bson.D{
				{Key: "order", Value: 1},
				{Key: "createdAt", Value: -1},
			}),
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		images := make([]models.HeroImage, 0)
		if err := cursor.All(ctx, &images); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(images),
			"data":    images,
		})
	}
}

// GetAllHeroImages handles GET /api/hero-images/admin.
func GetAllHeroImages(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("hero_images").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{
				{Key: "order", Value: 1},
				{Key: "createdAt", Value: -1},
			}),
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		images := make([]models.HeroImage, 0)
		if err := cursor.All(ctx, &images); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(images),
			"data":    images,
		})
	}
}

// GetHeroImageByID handles GET /api/hero-images/:id (admin).
func GetHeroImageByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		heroID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid hero image ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var hero models.HeroImage
		err = db.Collection("hero_images").FindOne(ctx, bson.M{"_id": heroID}).Decode(&hero)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Hero image not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, hero)
	}
}

// CreateHeroImage handles POST /api/hero-images (admin).
func CreateHeroImage(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req heroImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		now := time.Now()
		hero := models.HeroImage{
			Title:     req.Title,
			Subtitle:  req.Subtitle,
			Image:     req.Image,
			Link:      req.Link,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if req.Order != nil {
			hero.Order = *req.Order
		}
		if req.IsActive != nil {
			hero.IsActive = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("hero_images").InsertOne(ctx, hero)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			hero.ID = id
		}

		respondData(c, http.StatusCreated, hero)
	}
}

// UpdateHeroImage handles PUT /api/hero-images/:id (admin). A replaced hosted
// image is destroyed best-effort.
func UpdateHeroImage(db *mongo.Database, images *cloudinary.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		heroID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid hero image ID")
			return
		}

		var req heroImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.HeroImage
		err = db.Collection("hero_images").FindOne(ctx, bson.M{"_id": heroID}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Hero image not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		update := bson.M{
			"title":     req.Title,
			"subtitle":  req.Subtitle,
			"image":     req.Image,
			"link":      req.Link,
			"updatedAt": time.Now(),
		}
		if req.Order != nil {
			update["order"] = *req.Order
		}
		if req.IsActive != nil {
			update["isActive"] = *req.IsActive
		}

		var hero models.HeroImage
		err = db.Collection("hero_images").FindOneAndUpdate(
			ctx,
			bson.M{"_id": heroID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&hero)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		if images.Configured() && existing.Image != "" && existing.Image != hero.Image {
			if publicID := cloudinary.PublicIDFromURL(existing.Image); publicID != "" {
				if err := images.Destroy(c.Request.Context(), publicID); err != nil {
					logging.From(c).Warn("failed to delete replaced hero image",
						"publicId", publicID, "error", err)
				}
			}
		}

		respondData(c, http.StatusOK, hero)
	}
}

// ToggleHeroImage handles PATCH /api/hero-images/:id/toggle-status (admin). The flip
// happens server-side so concurrent toggles never clobber each other.
func ToggleHeroImage(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		heroID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid hero image ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var hero models.HeroImage
		err = db.Collection("hero_images").FindOneAndUpdate(
			ctx,
			bson.M{"_id": heroID},
			[]bson.M{{"$set": bson.M{
				"isActive":  bson.M{"$not": "$isActive"},
				"updatedAt": "$$NOW",
			}}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&hero)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Hero image not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, hero)
	}
}

// DeleteHeroImage handles DELETE /api/hero-images/:id (admin). The hosted
// image is destroyed along with the document.
func DeleteHeroImage(db *mongo.Database, images *cloudinary.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		heroID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid hero image ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var hero models.HeroImage
		err = db.Collection("hero_images").FindOneAndDelete(ctx, bson.M{"_id": heroID}).Decode(&hero)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Hero image not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		if images.Configured() && hero.Image != "" {
			if publicID := cloudinary.PublicIDFromURL(hero.Image); publicID != "" {
				if err := images.Destroy(c.Request.Context(), publicID); err != nil {
					logging.From(c).Warn("failed to delete hero image asset",
						"publicId", publicID, "error", err)
				}
			}
		}

		respondMessage(c, http.StatusOK, "Hero image deleted successfully")
	}
}
