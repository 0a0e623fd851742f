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

	"github.com/classiccarrry/classic-carrry-backend/internal/email"
	"github.com/classiccarrry/classic-carrry-backend/internal/logging"
	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type contactReplyRequest struct {
	Message string `json:"message" binding:"required"`
}

// SubmitContact handles POST /api/contact. The confirmation email is
// best-effort: the message is already stored.
func SubmitContact(db *mongo.Database, mailer email.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/contact"
		defer handlePanic(c, route)

		var req contactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		now := time.Now()
		contact := models.Contact{
			Name:      strings.TrimSpace(req.Name),
			Email:     strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:     strings.TrimSpace(req.Phone),
			Subject:   strings.TrimSpace(req.Subject),
			Message:   strings.TrimSpace(req.Message),
			Status:    models.ContactStatusNew,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("contacts").InsertOne(ctx, contact)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			contact.ID = id
		}

		go func() {
			sendCtx, sendCancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer sendCancel()

			model := email.NewContactConfirmationModel(contact)
			body, err := email.RenderContactConfirmation(model)
			if err == nil {
				err = mailer.Send(sendCtx, contact.Email,
					"We received your message | Classic Carrry", body)
			}
			if err != nil {
				logging.Base().Warn("contact confirmation email failed",
					"email", contact.Email, "error", err)
			}
		}()

		respondMessage(c, http.StatusCreated, "Thank you for contacting us! We will get back to you soon.")
	}
}

// GetContacts handles GET /api/contact (admin) with status filter and
// pagination.
func GetContacts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"), 20)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid pagination parameters")
			return
		}

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		contactsColl := db.Collection("contacts")
		total, err := contactsColl.CountDocuments(ctx, filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		cursor, err := contactsColl.Find(ctx, filter,
			options.Find().
				SetSort(bson.D{{Key: "createdAt", Value: -1}}).
				SetSkip((page-1)*limit).
				SetLimit(limit),
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		contacts := make([]models.Contact, 0)
		if err := cursor.All(ctx, &contacts); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"count":       len(contacts),
			"total":       total,
			"totalPages":  totalPages(total, limit),
			"currentPage": page,
			"data":        contacts,
		})
	}
}

// GetContactByID handles GET /api/contact/:id (admin). Opening a new message
// marks it read.
func GetContactByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid contact ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var contact models.Contact
		err = db.Collection("contacts").FindOneAndUpdate(
			ctx,
			bson.M{"_id": contactID, "status": models.ContactStatusNew},
			bson.M{"$set": bson.M{"status": models.ContactStatusRead, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&contact)
		if err == mongo.ErrNoDocuments {
			err = db.Collection("contacts").FindOne(ctx, bson.M{"_id": contactID}).Decode(&contact)
		}
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Contact message not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, contact)
	}
}

// UpdateContactStatus handles PUT /api/contact/:id/status (admin).
func UpdateContactStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid contact ID")
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if !models.IsValidContactStatus(req.Status) {
			respondError(c, http.StatusBadRequest, "Invalid status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var contact models.Contact
		err = db.Collection("contacts").FindOneAndUpdate(
			ctx,
			bson.M{"_id": contactID},
			bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&contact)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Contact message not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, contact)
	}
}

// ReplyToContact handles POST /api/contact/:id/reply (admin). The reply goes
// out by email and the message moves to replied.
func ReplyToContact(db *mongo.Database, mailer email.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/contact/:id/reply"
		defer handlePanic(c, route)

		contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid contact ID")
			return
		}

		var req contactReplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var contact models.Contact
		err = db.Collection("contacts").FindOne(ctx, bson.M{"_id": contactID}).Decode(&contact)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Contact message not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		model := email.NewContactReplyModel(contact, req.Message)
		body, err := email.RenderContactReply(model)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to render reply")
			return
		}
		subject := "Re: " + contact.Subject + " | Classic Carrry"
		if err := mailer.Send(ctx, contact.Email, subject, body); err != nil {
			logging.From(c).Error("contact reply email failed",
				"contactId", contactID.Hex(), "error", err)
			respondError(c, http.StatusInternalServerError, "Failed to send reply email")
			return
		}

		now := time.Now()
		_, err = db.Collection("contacts").UpdateOne(ctx,
			bson.M{"_id": contactID},
			bson.M{"$set": bson.M{
				"status":       models.ContactStatusReplied,
				"replyMessage": req.Message,
				"repliedAt":    now,
				"updatedAt":    now,
			}},
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondMessage(c, http.StatusOK, "Reply sent successfully")
	}
}

// DeleteContact handles DELETE /api/contact/:id (admin).
func DeleteContact(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid contact ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("contacts").DeleteOne(ctx, bson.M{"_id": contactID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, "Contact message not found")
			return
		}

		respondMessage(c, http.StatusOK, "Contact message deleted successfully")
	}
}

// GetContactStats handles GET /api/contact/stats (admin): totals broken down
// by status for the dashboard.
func GetContactStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("contacts").Aggregate(ctx, mongo.Pipeline{
			{{Key: "$group", Value: bson.M{
				"_id":   "$status",
				"count": bson.M{"$sum": 1},
			}}},
		})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		var rows []struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		stats := gin.H{
			"total":    int64(0),
			"new":      int64(0),
			"read":     int64(0),
			"replied":  int64(0),
			"archived": int64(0),
		}
		var total int64
		for _, row := range rows {
			stats[row.Status] = row.Count
			total += row.Count
		}
		stats["total"] = total

		respondData(c, http.StatusOK, stats)
	}
}
