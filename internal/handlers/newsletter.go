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

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe handles POST /api/newsletter/subscribe. Re-subscribing a lapsed
// email reactivates it instead of failing on the unique index.
func Subscribe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/newsletter/subscribe"
		defer handlePanic(c, route)

		var req subscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		address := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		subscribers := db.Collection("newsletter_subscribers")

		var existing models.Subscriber
		err := subscribers.FindOne(ctx, bson.M{"email": address}).Decode(&existing)
		switch {
		case err == nil && existing.IsActive:
			respondError(c, http.StatusBadRequest, "This email is already subscribed")
			return
		case err == nil:
			_, err = subscribers.UpdateOne(ctx,
				bson.M{"_id": existing.ID},
				bson.M{"$set": bson.M{"isActive": true, "subscribedAt": time.Now()}},
			)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "db error")
				return
			}
			respondMessage(c, http.StatusOK, "Welcome back! Your subscription has been reactivated.")
			return
		case err != mongo.ErrNoDocuments:
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		now := time.Now()
		_, err = subscribers.InsertOne(ctx, models.Subscriber{
			Email:        address,
			IsActive:     true,
			SubscribedAt: now,
			CreatedAt:    now,
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusBadRequest, "This email is already subscribed")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondMessage(c, http.StatusCreated, "Successfully subscribed to the newsletter!")
	}
}

// Unsubscribe handles POST /api/newsletter/unsubscribe. The document stays so
// the admin list keeps history.
func Unsubscribe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		address := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("newsletter_subscribers").UpdateOne(ctx,
			bson.M{"email": address, "isActive": true},
			bson.M{"$set": bson.M{"isActive": false}},
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, "Email not found in our subscriber list")
			return
		}

		respondMessage(c, http.StatusOK, "Successfully unsubscribed from the newsletter")
	}
}

// GetSubscribers handles GET /api/newsletter/subscribers (admin) with an
// isActive filter and pagination.
func GetSubscribers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"), 50)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid pagination parameters")
			return
		}

		filter := bson.M{}
		switch c.Query("isActive") {
		case "true":
			filter["isActive"] = true
		case "false":
			filter["isActive"] = false
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		subscribers := db.Collection("newsletter_subscribers")
		total, err := subscribers.CountDocuments(ctx, filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		cursor, err := subscribers.Find(ctx, filter,
			options.Find().
				SetSort(bson.D{{Key: "subscribedAt", Value: -1}}).
				SetSkip((page-1)*limit).
				SetLimit(limit),
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		list := make([]models.Subscriber, 0)
		if err := cursor.All(ctx, &list); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"count":       len(list),
			"total":       total,
			"totalPages":  totalPages(total, limit),
			"currentPage": page,
			"data":        list,
		})
	}
}

// DeleteSubscriber handles DELETE /api/newsletter/subscribers/:id (admin).
func DeleteSubscriber(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		subscriberID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid subscriber ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("newsletter_subscribers").DeleteOne(ctx, bson.M{"_id": subscriberID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, "Subscriber not found")
			return
		}

		respondMessage(c, http.StatusOK, "Subscriber deleted successfully")
	}
}
