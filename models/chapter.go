package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chapter numbers are assigned as chapter-count+1 at upload time and are
// unique per novel via a compound index (see store.EnsureIndexes).
type Chapter struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NovelID       primitive.ObjectID `bson:"novel" json:"novel"`
	ChapterNumber int                `bson:"chapterNumber" json:"chapterNumber"`
	ChapterName   string             `bson:"chapterName" json:"chapterName"`
	Content       string             `bson:"chapterContent" json:"chapterContent"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
