package store

import (
	"context"

	"github.com/alanraiden/novelweb/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchResultLimit caps title search results.
const SearchResultLimit = 20

func (db *DB) CreateNovel(ctx context.Context, novel *models.Novel) (primitive.ObjectID, error) {
	res, err := db.Novels().InsertOne(ctx, novel)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) NovelByID(ctx context.Context, id primitive.ObjectID) (*models.Novel, error) {
	var n models.Novel
	err := db.Novels().FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (db *DB) ListNovels(ctx context.Context) ([]models.Novel, error) {
	return db.findNovels(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (db *DB) NovelsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Novel, error) {
	return db.findNovels(ctx, bson.M{"author": authorID}, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (db *DB) NovelsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Novel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return db.findNovels(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

// SearchNovels matches query as a case-insensitive substring of the title,
// capped at SearchResultLimit results.
func (db *DB) SearchNovels(ctx context.Context, query string) ([]models.Novel, error) {
	filter := bson.M{"title": bson.M{"$regex": primitive.Regex{Pattern: query, Options: "i"}}}
	return db.findNovels(ctx, filter, options.Find().SetLimit(SearchResultLimit))
}

func (db *DB) findNovels(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Novel, error) {
	cur, err := db.Novels().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var novels []models.Novel
	if err := cur.All(ctx, &novels); err != nil {
		return nil, err
	}
	return novels, nil
}

func (db *DB) UpdateNovel(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	if len(updates) == 0 {
		return nil
	}
	_, err := db.Novels().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	return err
}

// SetNovelLikes replaces the novel's like-set with the toggled set
// computed by the caller.
func (db *DB) SetNovelLikes(ctx context.Context, id primitive.ObjectID, likes []primitive.ObjectID) error {
	_, err := db.Novels().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"likes": likes}})
	return err
}

func (db *DB) AppendNovelChapter(ctx context.Context, id, chapterID primitive.ObjectID) error {
	_, err := db.Novels().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"chapters": chapterID}})
	return err
}

func (db *DB) AppendNovelReview(ctx context.Context, id, reviewID primitive.ObjectID) error {
	_, err := db.Novels().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"reviews": reviewID}})
	return err
}

func (db *DB) RemoveNovelReview(ctx context.Context, id, reviewID primitive.ObjectID) error {
	_, err := db.Novels().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"reviews": reviewID}})
	return err
}

// DeleteNovel removes the novel document and cascades to its chapters and
// reviews. Author back-reference cleanup is the caller's job since it needs
// the loaded novel anyway.
func (db *DB) DeleteNovel(ctx context.Context, id primitive.ObjectID) error {
	if _, err := db.Chapters().DeleteMany(ctx, bson.M{"novel": id}); err != nil {
		return err
	}
	if _, err := db.Reviews().DeleteMany(ctx, bson.M{"novel": id}); err != nil {
		return err
	}
	_, err := db.Novels().DeleteOne(ctx, bson.M{"_id": id})
	return err
}
