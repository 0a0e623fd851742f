package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings collections hold singleton documents created on first read.

type ContactInfo struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	WhatsApp  string             `bson:"whatsapp" json:"whatsapp"`
	Address   string             `bson:"address" json:"address"`
	TikTok    string             `bson:"tiktok" json:"tiktok"`
	Instagram string             `bson:"instagram" json:"instagram"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	FAQCategoryGeneral  = "general"
	FAQCategoryShipping = "shipping"
	FAQCategoryReturns  = "returns"
	FAQCategoryPayment  = "payment"
	FAQCategoryProducts = "products"
)

type FAQ struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Question  string             `bson:"question" json:"question"`
	Answer    string             `bson:"answer" json:"answer"`
	Category  string             `bson:"category" json:"category"`
	Order     int                `bson:"order" json:"order"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type AppearanceSettings struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SiteName        string             `bson:"siteName" json:"siteName"`
	BrandEmoji      string             `bson:"brandEmoji" json:"brandEmoji"`
	Tagline         string             `bson:"tagline" json:"tagline"`
	ShowNewsletter  bool               `bson:"showNewsletter" json:"showNewsletter"`
	ShowSocialMedia bool               `bson:"showSocialMedia" json:"showSocialMedia"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type GeneralSettings struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Currency              string             `bson:"currency" json:"currency"`
	CurrencySymbol        string             `bson:"currencySymbol" json:"currencySymbol"`
	ShippingFee           float64            `bson:"shippingFee" json:"shippingFee"`
	FreeShippingThreshold float64            `bson:"freeShippingThreshold" json:"freeShippingThreshold"`
	TaxRate               float64            `bson:"taxRate" json:"taxRate"`
	OrderPrefix           string             `bson:"orderPrefix" json:"orderPrefix"`
	EnableCOD             bool               `bson:"enableCOD" json:"enableCOD"`
	EnableOnlinePayment   bool               `bson:"enableOnlinePayment" json:"enableOnlinePayment"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func DefaultContactInfo() ContactInfo {
	return ContactInfo{
		Email:    "classiccarrry@gmail.com",
		Phone:    "+92 316 092 8206",
		WhatsApp: "+92 316 092 8206",
		Address:  "Pakistan",
	}
}

func DefaultAppearanceSettings() AppearanceSettings {
	return AppearanceSettings{
		SiteName:        "Classic Carrry",
		BrandEmoji:      "✨",
		Tagline:         "Premium Lifestyle Products",
		ShowNewsletter:  true,
		ShowSocialMedia: true,
	}
}

func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		Currency:              "PKR",
		CurrencySymbol:        "Rs",
		ShippingFee:           200,
		FreeShippingThreshold: 5000,
		TaxRate:               0,
		OrderPrefix:           "CC",
		EnableCOD:             true,
	}
}
