package handlers

import (
	"context"
	"errors"
	"fmt"
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

const orderNumberPrefix = "CC"

type createOrderRequest struct {
	Customer models.OrderCustomer `json:"customer" binding:"required"`
	Items    []models.OrderItem   `json:"items" binding:"required"`
	Pricing  models.OrderPricing  `json:"pricing" binding:"required"`
}

type updateOrderStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// nextOrderSequence allocates the next order number sequence with a single
// atomic increment on the counters collection.
func nextOrderSequence(ctx context.Context, db *mongo.Database) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": "orders"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// CreateOrder handles POST /api/orders. Product existence and stock checks,
// the stock decrements and the order insert all run in one session
// transaction, so a failing item leaves no partial decrement behind.
// Notification emails are best-effort and never fail the request.
func CreateOrder(db *mongo.Database, mailer email.Mailer, ownerEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if len(req.Items) == 0 {
			respondError(c, http.StatusBadRequest, "No order items provided")
			return
		}

		now := time.Now()
		order := models.Order{
			Customer:      normalizeOrderCustomer(req.Customer),
			Items:         req.Items,
			Pricing:       req.Pricing,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			for _, item := range order.Items {
				var product models.Product
				err := db.Collection("products").FindOne(
					sessCtx,
					bson.M{"id": item.ProductID},
				).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: item.ProductID}
				}
				if err != nil {
					return nil, err
				}

				if product.Stock < item.Quantity {
					return nil, insufficientStockError{
						ProductID: item.ProductID,
						Name:      product.Name,
						Available: product.Stock,
						Requested: item.Quantity,
					}
				}

				res, err := db.Collection("products").UpdateOne(
					sessCtx,
					bson.M{"id": item.ProductID, "stock": bson.M{"$gte": item.Quantity}},
					bson.M{"$inc": bson.M{"stock": -item.Quantity}},
				)
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, insufficientStockError{
						ProductID: item.ProductID,
						Name:      product.Name,
						Available: product.Stock,
						Requested: item.Quantity,
					}
				}
			}

			seq, err := nextOrderSequence(sessCtx, db)
			if err != nil {
				return nil, err
			}
			order.OrderNumber = buildOrderNumber(orderNumberPrefix, order.CreatedAt, seq)

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}
			return nil, nil
		})
		if err != nil {
			var notFound productNotFoundError
			if errors.As(err, &notFound) {
				respondError(c, http.StatusNotFound, notFound.Error())
				return
			}
			var stockErr insufficientStockError
			if errors.As(err, &stockErr) {
				logging.From(c).Warn("order rejected, insufficient stock",
					"productId", stockErr.ProductID,
					"available", stockErr.Available,
					"requested", stockErr.Requested,
				)
				respondError(c, http.StatusBadRequest, stockErr.Error())
				return
			}
			logging.From(c).Error("order transaction failed", "error", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		sendOrderEmails(c, mailer, order, ownerEmail)

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
	}
}

// sendOrderEmails dispatches the customer confirmation and owner alert. Both
// are best-effort: transport failures are logged and swallowed.
func sendOrderEmails(c *gin.Context, mailer email.Mailer, order models.Order, ownerEmail string) {
	l := logging.From(c)
	model := email.NewOrderConfirmationModel(order)

	if html, err := email.RenderOrderConfirmation(model); err != nil {
		l.Error("render confirmation email failed", "error", err)
	} else {
		subject := fmt.Sprintf("Order Confirmation - %s | Classic Carrry", order.OrderNumber)
		if err := mailer.Send(c.Request.Context(), order.Customer.Email, subject, html); err != nil {
			l.Error("customer confirmation email failed", "to", order.Customer.Email, "error", err)
		}
	}

	if html, err := email.RenderOwnerNotification(model); err != nil {
		l.Error("render owner email failed", "error", err)
	} else {
		subject := fmt.Sprintf("🔔 New Order Received - %s", order.OrderNumber)
		if err := mailer.Send(c.Request.Context(), ownerEmail, subject, html); err != nil {
			l.Error("owner notification email failed", "to", ownerEmail, "error", err)
		}
	}
}

// GetOrders handles GET /api/orders with an optional status filter and
// pagination.
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"), 20)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid pagination params")
			return
		}

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("orders").Find(ctx, filter, findOptions)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		total, err := db.Collection("orders").CountDocuments(ctx, filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"count":       len(orders),
			"totalPages":  totalPages(total, limit),
			"currentPage": page,
			"data":        orders,
		})
	}
}

// GetOrderByNumber handles GET /api/orders/:id where :id is the public order
// number, not the storage key.
func GetOrderByNumber(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err := db.Collection("orders").FindOne(ctx, bson.M{"orderNumber": c.Param("id")}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		respondData(c, http.StatusOK, order)
	}
}

// UpdateOrderStatus handles PUT /api/orders/:id. Status changes are validated
// against the forward-only lifecycle; paymentStatus has no ordering
// constraint. A status change triggers a best-effort customer email.
func UpdateOrderStatus(db *mongo.Database, mailer email.Mailer, frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id"
		defer handlePanic(c, route)

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Status == "" && req.PaymentStatus == "" {
			respondError(c, http.StatusBadRequest, "status or paymentStatus is required")
			return
		}
		if req.Status != "" && !isValidOrderStatus(req.Status) {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid order status: %s", req.Status))
			return
		}
		if req.PaymentStatus != "" && !isValidPaymentStatus(req.PaymentStatus) {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid payment status: %s", req.PaymentStatus))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orderNumber := c.Param("id")

		var order models.Order
		err := db.Collection("orders").FindOne(ctx, bson.M{"orderNumber": orderNumber}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		if req.Status != "" {
			if err := checkStatusTransition(order.Status, req.Status); err != nil {
				respondError(c, http.StatusBadRequest, err.Error())
				return
			}
		}

		oldStatus := order.Status
		update := bson.M{"updatedAt": time.Now()}
		if req.Status != "" {
			update["status"] = req.Status
			order.Status = req.Status
		}
		if req.PaymentStatus != "" {
			update["paymentStatus"] = req.PaymentStatus
			order.PaymentStatus = req.PaymentStatus
		}

		_, err = db.Collection("orders").UpdateOne(ctx,
			bson.M{"orderNumber": orderNumber},
			bson.M{"$set": update},
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		if req.Status != "" && req.Status != oldStatus {
			sendStatusEmail(c, mailer, order, req.Status, frontendURL)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    order,
			"message": "Order status updated successfully",
		})
	}
}

func sendStatusEmail(c *gin.Context, mailer email.Mailer, order models.Order, status, frontendURL string) {
	l := logging.From(c)

	model, ok := email.NewStatusUpdateModel(order, status, frontendURL)
	if !ok {
		return
	}
	html, err := email.RenderStatusUpdate(model)
	if err != nil {
		l.Error("render status email failed", "error", err)
		return
	}
	subject := fmt.Sprintf("%s - Order #%s | Classic Carrry", model.Heading, order.OrderNumber)
	if err := mailer.Send(c.Request.Context(), order.Customer.Email, subject, html); err != nil {
		l.Error("status update email failed", "to", order.Customer.Email, "error", err)
	}
}

// GetMyOrders handles GET /api/orders/myorders for the authenticated
// customer, newest first.
func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/myorders"
		defer handlePanic(c, route)

		userEmail := strings.ToLower(strings.TrimSpace(c.GetString("userEmail")))
		if userEmail == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx,
			bson.M{"customer.email": userEmail},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(orders),
			"data":    orders,
		})
	}
}

func normalizeOrderCustomer(customer models.OrderCustomer) models.OrderCustomer {
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	customer.FirstName = strings.TrimSpace(customer.FirstName)
	customer.LastName = strings.TrimSpace(customer.LastName)
	return customer
}
