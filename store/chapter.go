package store

import (
	"context"

	"github.com/alanraiden/novelweb/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) CreateChapter(ctx context.Context, chapter *models.Chapter) (primitive.ObjectID, error) {
	res, err := db.Chapters().InsertOne(ctx, chapter)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ChapterByID(ctx context.Context, novelID, chapterID primitive.ObjectID) (*models.Chapter, error) {
	var c models.Chapter
	err := db.Chapters().FindOne(ctx, bson.M{"_id": chapterID, "novel": novelID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *DB) ChaptersByNovel(ctx context.Context, novelID primitive.ObjectID) ([]models.Chapter, error) {
	cur, err := db.Chapters().Find(ctx, bson.M{"novel": novelID},
		options.Find().SetSort(bson.M{"chapterNumber": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var chapters []models.Chapter
	if err := cur.All(ctx, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

// ChaptersByNovelIDs returns chapters for all of the given novels in one
// query, for list-population.
func (db *DB) ChaptersByNovelIDs(ctx context.Context, novelIDs []primitive.ObjectID) ([]models.Chapter, error) {
	if len(novelIDs) == 0 {
		return nil, nil
	}
	cur, err := db.Chapters().Find(ctx, bson.M{"novel": bson.M{"$in": novelIDs}},
		options.Find().SetSort(bson.M{"chapterNumber": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var chapters []models.Chapter
	if err := cur.All(ctx, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}
