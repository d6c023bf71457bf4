package store

import (
	"context"

	"github.com/alanraiden/novelweb/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (db *DB) CreateAuthor(ctx context.Context, author *models.Author) (primitive.ObjectID, error) {
	res, err := db.Authors().InsertOne(ctx, author)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) AuthorByID(ctx context.Context, id primitive.ObjectID) (*models.Author, error) {
	var a models.Author
	err := db.Authors().FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) AuthorByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Author, error) {
	var a models.Author
	err := db.Authors().FindOne(ctx, bson.M{"user": userID}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) AuthorByPenName(ctx context.Context, penName string) (*models.Author, error) {
	var a models.Author
	err := db.Authors().FindOne(ctx, bson.M{"penName": penName}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) ListAuthors(ctx context.Context) ([]models.Author, error) {
	cur, err := db.Authors().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var authors []models.Author
	if err := cur.All(ctx, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

func (db *DB) AuthorsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Author, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := db.Authors().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var authors []models.Author
	if err := cur.All(ctx, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

func (db *DB) AppendAuthorNovel(ctx context.Context, id, novelID primitive.ObjectID) error {
	_, err := db.Authors().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"novels": novelID}})
	return err
}

func (db *DB) RemoveAuthorNovel(ctx context.Context, id, novelID primitive.ObjectID) error {
	_, err := db.Authors().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"novels": novelID}})
	return err
}
