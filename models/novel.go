package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media is a stored object reference: the public URL plus the opaque
// storage key needed to delete it later.
type Media struct {
	URL string `bson:"url" json:"url"`
	Key string `bson:"key,omitempty" json:"key,omitempty"`
}

type Novel struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	CoverPhoto  Media                `bson:"coverPhoto" json:"coverPhoto"`
	IntroVideo  *Media               `bson:"introVideo,omitempty" json:"introVideo,omitempty"`
	AuthorID    primitive.ObjectID   `bson:"author" json:"author"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	Chapters    []primitive.ObjectID `bson:"chapters" json:"chapters"`
	Reviews     []primitive.ObjectID `bson:"reviews" json:"reviews"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}
