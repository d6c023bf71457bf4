package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author is the writer profile created when a user's authorship
// application is approved. UserID is unique 1:1 with a User.
type Author struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID   `bson:"user" json:"user"`
	PenName   string               `bson:"penName" json:"penName"`
	Bio       string               `bson:"bio" json:"bio"`
	Novels    []primitive.ObjectID `bson:"novels" json:"novels"`
	Followers []primitive.ObjectID `bson:"followers" json:"followers"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
