package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon is the persisted coupon document. Code is stored uppercase and is
// unique. Zero values for MinPurchase, MaxDiscount and UsageLimit mean
// "no limit".
type Coupon struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code          string             `bson:"code" json:"code"`
	DiscountType  string             `bson:"discountType" json:"discountType"`
	DiscountValue float64            `bson:"discountValue" json:"discountValue"`
	MinPurchase   float64            `bson:"minPurchase" json:"minPurchase"`
	MaxDiscount   float64            `bson:"maxDiscount" json:"maxDiscount"`
	UsageLimit    int                `bson:"usageLimit" json:"usageLimit"`
	UsedCount     int                `bson:"usedCount" json:"usedCount"`
	ExpiryDate    *time.Time         `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
