package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pet is the companion-pet document, one per user. The risk scorer only
// touches Mood; everything else belongs to the presentation layer.
type Pet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Mood      PetMood            `bson:"mood" json:"mood"`
	Energy    int                `bson:"energy" json:"energy"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
