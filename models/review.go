package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reply is embedded within a Review document.
type Reply struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Content   string               `bson:"content" json:"content"`
	UserID    primitive.ObjectID   `bson:"user" json:"user"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

type Review struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID   `bson:"user" json:"user"`
	NovelID   primitive.ObjectID   `bson:"novel" json:"novel"`
	Title     string               `bson:"reviewTitle" json:"reviewTitle"`
	Content   string               `bson:"reviewContent" json:"reviewContent"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Replies   []Reply              `bson:"replies" json:"replies"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// FindReply returns the embedded reply with the given id, or nil.
func (rev *Review) FindReply(id primitive.ObjectID) *Reply {
	for i := range rev.Replies {
		if rev.Replies[i].ID == id {
			return &rev.Replies[i]
		}
	}
	return nil
}
