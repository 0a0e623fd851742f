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

	"github.com/classiccarrry/classic-carrry-backend/internal/cache"
	"github.com/classiccarrry/classic-carrry-backend/internal/logging"
	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

type validateCouponRequest struct {
	Code       string  `json:"code"`
	OrderTotal float64 `json:"orderTotal"`
}

type applyCouponRequest struct {
	Code        string `json:"code" binding:"required"`
	OrderNumber string `json:"orderNumber"`
}

type couponRequest struct {
	Code          string     `json:"code" binding:"required"`
	DiscountType  string     `json:"discountType" binding:"required,oneof=percentage fixed"`
	DiscountValue float64    `json:"discountValue" binding:"min=0"`
	MinPurchase   float64    `json:"minPurchase" binding:"min=0"`
	MaxDiscount   float64    `json:"maxDiscount" binding:"min=0"`
	UsageLimit    int        `json:"usageLimit" binding:"min=0"`
	ExpiryDate    *time.Time `json:"expiryDate"`
	IsActive      *bool      `json:"isActive"`
}

// CheckActiveCoupons handles GET /api/coupons/check-active, a public hint for
// the storefront to show or hide the coupon field.
func CheckActiveCoupons(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("coupons").CountDocuments(ctx, bson.M{
			"isActive": true,
			"$or": []bson.M{
				{"expiryDate": bson.M{"$exists": false}},
				{"expiryDate": nil},
				{"expiryDate": bson.M{"$gte": time.Now()}},
			},
		})
		if err != nil {
			logging.From(c).Error("check active coupons failed", "error", err)
			c.JSON(http.StatusOK, gin.H{"success": false, "hasActiveCoupons": false})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "hasActiveCoupons": count > 0})
	}
}

// ValidateCoupon handles POST /api/coupons/validate and
// GET /api/coupons/validate/:code. It checks the coupon against expiry, usage
// limit and minimum purchase, computes the discount, and never mutates usage.
func ValidateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/coupons/validate"
		defer handlePanic(c, route)

		var req validateCouponRequest
		if c.Request.Method != http.MethodGet {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		rawCode := c.Param("code")
		if rawCode == "" {
			rawCode = req.Code
		}
		if strings.TrimSpace(rawCode) == "" {
			respondError(c, http.StatusBadRequest, "Coupon code is required")
			return
		}
		code := normalizeCouponCode(rawCode)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var coupon models.Coupon
		err := db.Collection("coupons").FindOne(ctx, bson.M{
			"code":     code,
			"isActive": true,
		}).Decode(&coupon)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Invalid coupon code")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to validate coupon")
			return
		}

		result, err := evaluateCoupon(coupon, req.OrderTotal, time.Now())
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		respondData(c, http.StatusOK, result)
	}
}

// ApplyCoupon handles POST /api/coupons/apply. The usage increment is a
// single conditional update so concurrent redemptions cannot push usedCount
// past the limit. When the caller names an order, a Redis lock makes the
// apply idempotent per order.
func ApplyCoupon(db *mongo.Database, idemp cache.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/coupons/apply"
		defer handlePanic(c, route)

		var req applyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Coupon code is required")
			return
		}
		code := normalizeCouponCode(req.Code)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if req.OrderNumber != "" && idemp != nil {
			locked, err := idemp.TryLock(ctx, "coupon-apply", code+":"+req.OrderNumber)
			if err != nil {
				// the guard is advisory; a cache outage must not block checkout
				logging.From(c).Warn("coupon idempotency check failed", "error", err)
			} else if !locked {
				respondError(c, http.StatusConflict, "Coupon already applied to this order")
				return
			}
		}

		var coupon models.Coupon
		err := db.Collection("coupons").FindOneAndUpdate(
			ctx,
			bson.M{
				"code": code,
				"$or": []bson.M{
					{"usageLimit": 0},
					{"$expr": bson.M{"$lt": []string{"$usedCount", "$usageLimit"}}},
				},
			},
			bson.M{
				"$inc": bson.M{"usedCount": 1},
				"$set": bson.M{"updatedAt": time.Now()},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&coupon)
		if err == mongo.ErrNoDocuments {
			// distinguish a missing coupon from one at its usage limit
			countErr := db.Collection("coupons").FindOne(ctx, bson.M{"code": code}).Err()
			if countErr == mongo.ErrNoDocuments {
				respondError(c, http.StatusNotFound, "Coupon not found")
				return
			}
			respondError(c, http.StatusBadRequest, "Coupon usage limit reached")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, coupon)
	}
}

// GetAllCoupons handles GET /api/coupons (admin).
func GetAllCoupons(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("coupons").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		coupons := make([]models.Coupon, 0)
		if err := cursor.All(ctx, &coupons); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, coupons)
	}
}

// GetCouponByID handles GET /api/coupons/:id (admin).
func GetCouponByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var coupon models.Coupon
		findErr := db.Collection("coupons").FindOne(ctx, bson.M{"_id": couponID}).Decode(&coupon)
		if findErr == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Coupon not found")
			return
		}
		if findErr != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, coupon)
	}
}

// CreateCoupon handles POST /api/coupons (admin).
func CreateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		now := time.Now()
		coupon := models.Coupon{
			Code:          normalizeCouponCode(req.Code),
			DiscountType:  req.DiscountType,
			DiscountValue: req.DiscountValue,
			MinPurchase:   req.MinPurchase,
			MaxDiscount:   req.MaxDiscount,
			UsageLimit:    req.UsageLimit,
			ExpiryDate:    req.ExpiryDate,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if req.IsActive != nil {
			coupon.IsActive = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("coupons").InsertOne(ctx, coupon)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusBadRequest, "Coupon code already exists")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			coupon.ID = id
		}

		respondData(c, http.StatusCreated, coupon)
	}
}

// UpdateCoupon handles PUT /api/coupons/:id (admin).
func UpdateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}

		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		update := bson.M{
			"code":          normalizeCouponCode(req.Code),
			"discountType":  req.DiscountType,
			"discountValue": req.DiscountValue,
			"minPurchase":   req.MinPurchase,
			"maxDiscount":   req.MaxDiscount,
			"usageLimit":    req.UsageLimit,
			"expiryDate":    req.ExpiryDate,
			"updatedAt":     time.Now(),
		}
		if req.IsActive != nil {
			update["isActive"] = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var coupon models.Coupon
		findErr := db.Collection("coupons").FindOneAndUpdate(
			ctx,
			bson.M{"_id": couponID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&coupon)
		if findErr == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Coupon not found")
			return
		}
		if findErr != nil {
			if mongo.IsDuplicateKeyError(findErr) {
				respondError(c, http.StatusBadRequest, "Coupon code already exists")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, coupon)
	}
}

// DeleteCoupon handles DELETE /api/coupons/:id (admin).
func DeleteCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("coupons").DeleteOne(ctx, bson.M{"_id": couponID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, "Coupon not found")
			return
		}

		respondMessage(c, http.StatusOK, "Coupon deleted successfully")
	}
}

// ToggleCouponStatus handles PATCH /api/coupons/:id/toggle (admin). The flip
// happens server-side in one update.
func ToggleCouponStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var coupon models.Coupon
		findErr := db.Collection("coupons").FindOneAndUpdate(
			ctx,
			bson.M{"_id": couponID},
			[]bson.M{{"$set": bson.M{
				"isActive":  bson.M{"$not": "$isActive"},
				"updatedAt": "$$NOW",
			}}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&coupon)
		if findErr == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Coupon not found")
			return
		}
		if findErr != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, coupon)
	}
}
