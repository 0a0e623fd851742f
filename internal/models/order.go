package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses in lifecycle order. Cancelled sits outside the forward
// sequence and is reachable from any non-terminal state.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// OrderItem is a snapshot of a purchased product captured at order time,
// independent of later product edits.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId" binding:"required"`
	Name      string  `bson:"name" json:"name" binding:"required"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity" binding:"required,min=1"`
	Image     string  `bson:"image" json:"image" binding:"required"`
	Color     string  `bson:"color" json:"color"`
	Size      string  `bson:"size" json:"size"`
}

// OrderCustomer is the customer record embedded in the order document.
type OrderCustomer struct {
	Email         string `bson:"email" json:"email" binding:"required,email"`
	FirstName     string `bson:"firstName" json:"firstName" binding:"required"`
	LastName      string `bson:"lastName" json:"lastName" binding:"required"`
	Phone         string `bson:"phone" json:"phone" binding:"required"`
	Address       string `bson:"address" json:"address" binding:"required"`
	City          string `bson:"city" json:"city" binding:"required"`
	Province      string `bson:"province" json:"province" binding:"required"`
	PostalCode    string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	DeliveryNotes string `bson:"deliveryNotes,omitempty" json:"deliveryNotes,omitempty"`
}

// OrderPricing is computed by the caller at checkout and stored verbatim.
type OrderPricing struct {
	Subtotal       float64 `bson:"subtotal" json:"subtotal" binding:"min=0"`
	DeliveryCharge float64 `bson:"deliveryCharge" json:"deliveryCharge" binding:"min=0"`
	Total          float64 `bson:"total" json:"total" binding:"min=0"`
}

// Order is the persisted order document. OrderNumber is generated once at
// creation and never changes.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber   string             `bson:"orderNumber" json:"orderNumber"`
	Customer      OrderCustomer      `bson:"customer" json:"customer"`
	Items         []OrderItem        `bson:"items" json:"items"`
	Pricing       OrderPricing       `bson:"pricing" json:"pricing"`
	Status        string             `bson:"status" json:"status"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
