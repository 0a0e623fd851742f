package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Subscriber struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	SubscribedAt time.Time          `bson:"subscribedAt" json:"subscribedAt"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
