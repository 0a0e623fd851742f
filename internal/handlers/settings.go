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

	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

// Settings collections hold a single document each; the first read seeds the
// defaults so the storefront never sees an empty response.

// GetContactInfo handles GET /api/settings/contact.
func GetContactInfo(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		coll := db.Collection("contact_info")

		var info models.ContactInfo
		err := coll.FindOne(ctx, bson.M{}).Decode(&info)
		if err == mongo.ErrNoDocuments {
			info = models.DefaultContactInfo()
			info.UpdatedAt = time.Now()
			res, insertErr := coll.InsertOne(ctx, info)
			if insertErr != nil {
				respondError(c, http.StatusInternalServerError, "db error")
				return
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				info.ID = id
			}
		} else if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, info)
	}
}

// UpdateContactInfo handles PUT /api/settings/contact (admin). Upsert
// keeps it a singleton even on a fresh database.
func UpdateContactInfo(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email     string `json:"email" binding:"required,email"`
			Phone     string `json:"phone"`
			WhatsApp  string `json:"whatsapp"`
			Address   string `json:"address"`
			TikTok    string `json:"tiktok"`
			Instagram string `json:"instagram"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var info models.ContactInfo
		err := db.Collection("contact_info").FindOneAndUpdate(
			ctx,
			bson.M{},
			bson.M{"$set": bson.M{
				"email":     req.Email,
				"phone":     req.Phone,
				"whatsapp":  req.WhatsApp,
				"address":   req.Address,
				"tiktok":    req.TikTok,
				"instagram": req.Instagram,
				"updatedAt": time.Now(),
			}},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).Decode(&info)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, info)
	}
}

type faqRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Category string `json:"category"`
	Order    *int   `json:"order"`
}

func faqCategoryOrDefault(category string) (string, bool) {
	if category == "" {
		return models.FAQCategoryGeneral, true
	}
	switch category {
	case models.FAQCategoryGeneral, models.FAQCategoryShipping, models.FAQCategoryReturns,
		models.FAQCategoryPayment, models.FAQCategoryProducts:
		return category, true
	}
	return "", false
}

// GetFAQs handles GET /api/settings/faqs with an optional category filter.
func GetFAQs(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("faqs").Find(ctx, filter,
			options.Find().SetSort(bson.D{
				{Key: "category", Value: 1},
				{Key: "order", Value: 1},
			}),
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		faqs := make([]models.FAQ, 0)
		if err := cursor.All(ctx, &faqs); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(faqs),
			"data":    faqs,
		})
	}
}

// GetFAQByID handles GET /api/settings/faqs/:id.
func GetFAQByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		faqID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid FAQ ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var faq models.FAQ
		err = db.Collection("faqs").FindOne(ctx, bson.M{"_id": faqID}).Decode(&faq)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "FAQ not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, faq)
	}
}

// CreateFAQ handles POST /api/settings/faqs (admin).
func CreateFAQ(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req faqRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		category, ok := faqCategoryOrDefault(req.Category)
		if !ok {
			respondError(c, http.StatusBadRequest, "Invalid FAQ category")
			return
		}

		now := time.Now()
		faq := models.FAQ{
			Question:  req.Question,
			Answer:    req.Answer,
			Category:  category,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if req.Order != nil {
			faq.Order = *req.Order
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("faqs").InsertOne(ctx, faq)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			faq.ID = id
		}

		respondData(c, http.StatusCreated, faq)
	}
}

// UpdateFAQ handles PUT /api/settings/faqs/:id (admin).
func UpdateFAQ(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		faqID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid FAQ ID")
			return
		}

		var req faqRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		category, ok := faqCategoryOrDefault(req.Category)
		if !ok {
			respondError(c, http.StatusBadRequest, "Invalid FAQ category")
			return
		}

		update := bson.M{
			"question":  req.Question,
			"answer":    req.Answer,
			"category":  category,
			"updatedAt": time.Now(),
		}
		if req.Order != nil {
			update["order"] = *req.Order
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var faq models.FAQ
		err = db.Collection("faqs").FindOneAndUpdate(
			ctx,
			bson.M{"_id": faqID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&faq)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "FAQ not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, faq)
	}
}

// DeleteFAQ handles DELETE /api/settings/faqs/:id (admin).
func DeleteFAQ(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		faqID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid FAQ ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("faqs").DeleteOne(ctx, bson.M{"_id": faqID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, "FAQ not found")
			return
		}

		respondMessage(c, http.StatusOK, "FAQ deleted successfully")
	}
}

// GetAppearanceSettings handles GET /api/settings/appearance.
func GetAppearanceSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		coll := db.Collection("appearance_settings")

		var settings models.AppearanceSettings
		err := coll.FindOne(ctx, bson.M{}).Decode(&settings)
		if err == mongo.ErrNoDocuments {
			settings = models.DefaultAppearanceSettings()
			settings.UpdatedAt = time.Now()
			res, insertErr := coll.InsertOne(ctx, settings)
			if insertErr != nil {
				respondError(c, http.StatusInternalServerError, "db error")
				return
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				settings.ID = id
			}
		} else if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, settings)
	}
}

// UpdateAppearanceSettings handles PUT /api/settings/appearance (admin).
func UpdateAppearanceSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			SiteName        string `json:"siteName" binding:"required"`
			BrandEmoji      string `json:"brandEmoji"`
			Tagline         string `json:"tagline"`
			ShowNewsletter  *bool  `json:"showNewsletter"`
			ShowSocialMedia *bool  `json:"showSocialMedia"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		update := bson.M{
			"siteName":   req.SiteName,
			"brandEmoji": req.BrandEmoji,
			"tagline":    req.Tagline,
			"updatedAt":  time.Now(),
		}
		if req.ShowNewsletter != nil {
			update["showNewsletter"] = *req.ShowNewsletter
		}
		if req.ShowSocialMedia != nil {
			update["showSocialMedia"] = *req.ShowSocialMedia
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var settings models.AppearanceSettings
		err := db.Collection("appearance_settings").FindOneAndUpdate(
			ctx,
			bson.M{},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).Decode(&settings)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, settings)
	}
}

// GetGeneralSettings handles GET /api/settings/general.
func GetGeneralSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		coll := db.Collection("general_settings")

		var settings models.GeneralSettings
		err := coll.FindOne(ctx, bson.M{}).Decode(&settings)
		if err == mongo.ErrNoDocuments {
			settings = models.DefaultGeneralSettings()
			settings.UpdatedAt = time.Now()
			res, insertErr := coll.InsertOne(ctx, settings)
			if insertErr != nil {
				respondError(c, http.StatusInternalServerError, "db error")
				return
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				settings.ID = id
			}
		} else if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, settings)
	}
}

// UpdateGeneralSettings handles PUT /api/settings/general (admin).
func UpdateGeneralSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Currency              string   `json:"currency" binding:"required"`
			CurrencySymbol        string   `json:"currencySymbol"`
			ShippingFee           *float64 `json:"shippingFee" binding:"omitempty,min=0"`
			FreeShippingThreshold *float64 `json:"freeShippingThreshold" binding:"omitempty,min=0"`
			TaxRate               *float64 `json:"taxRate" binding:"omitempty,min=0"`
			OrderPrefix           string   `json:"orderPrefix"`
			EnableCOD             *bool    `json:"enableCOD"`
			EnableOnlinePayment   *bool    `json:"enableOnlinePayment"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		update := bson.M{
			"currency":  req.Currency,
			"updatedAt": time.Now(),
		}
		if req.CurrencySymbol != "" {
			update["currencySymbol"] = req.CurrencySymbol
		}
		if req.OrderPrefix != "" {
			update["orderPrefix"] = req.OrderPrefix
		}
		if req.ShippingFee != nil {
			update["shippingFee"] = *req.ShippingFee
		}
		if req.FreeShippingThreshold != nil {
			update["freeShippingThreshold"] = *req.FreeShippingThreshold
		}
		if req.TaxRate != nil {
			update["taxRate"] = *req.TaxRate
		}
		if req.EnableCOD != nil {
			update["enableCOD"] = *req.EnableCOD
		}
		if req.EnableOnlinePayment != nil {
			update["enableOnlinePayment"] = *req.EnableOnlinePayment
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var settings models.GeneralSettings
		err := db.Collection("general_settings").FindOneAndUpdate(
			ctx,
			bson.M{},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).Decode(&settings)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, settings)
	}
}
