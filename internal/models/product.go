package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the catalog document. SKU is the stable external identifier used
// by the storefront and by order line items; it is distinct from the Mongo _id.
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SKU            string             `bson:"id" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Price          float64            `bson:"price" json:"price"`
	Category       primitive.ObjectID `bson:"category" json:"category"`
	CategoryName   string             `bson:"categoryName,omitempty" json:"categoryName,omitempty"`
	MainImage      string             `bson:"mainImage" json:"mainImage"`
	Images         []string           `bson:"images,omitempty" json:"images,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Tag            string             `bson:"tag,omitempty" json:"tag,omitempty"`
	Colors         []string           `bson:"colors,omitempty" json:"colors,omitempty"`
	Sizes          []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Features       []string           `bson:"features,omitempty" json:"features,omitempty"`
	Specifications map[string]string  `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Stock          int                `bson:"stock" json:"stock"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	ProductType    string             `bson:"productType" json:"productType"`
	IsFeatured     bool               `bson:"isFeatured" json:"isFeatured"`
	IsHot          bool               `bson:"isHot" json:"isHot"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
