package store

import (
	"context"

	"github.com/alanraiden/novelweb/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) CreateReview(ctx context.Context, review *models.Review) (primitive.ObjectID, error) {
	res, err := db.Reviews().InsertOne(ctx, review)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ReviewByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var r models.Review
	err := db.Reviews().FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *DB) ReviewsByNovel(ctx context.Context, novelID primitive.ObjectID) ([]models.Review, error) {
	cur, err := db.Reviews().Find(ctx, bson.M{"novel": novelID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (db *DB) ReviewsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Review, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := db.Reviews().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// AppendReply pushes an embedded reply onto the review.
func (db *DB) AppendReply(ctx context.Context, reviewID primitive.ObjectID, reply models.Reply) error {
	_, err := db.Reviews().UpdateOne(ctx, bson.M{"_id": reviewID}, bson.M{"$push": bson.M{"replies": reply}})
	return err
}

// SetReviewLikes replaces the review's like-set with the toggled set
// computed by the caller.
func (db *DB) SetReviewLikes(ctx context.Context, id primitive.ObjectID, likes []primitive.ObjectID) error {
	_, err := db.Reviews().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"likes": likes}})
	return err
}

// SetReplyLikes replaces the like-set of one embedded reply.
func (db *DB) SetReplyLikes(ctx context.Context, reviewID, replyID primitive.ObjectID, likes []primitive.ObjectID) error {
	_, err := db.Reviews().UpdateOne(ctx,
		bson.M{"_id": reviewID, "replies._id": replyID},
		bson.M{"$set": bson.M{"replies.$.likes": likes}})
	return err
}

func (db *DB) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	_, err := db.Reviews().DeleteOne(ctx, bson.M{"_id": id})
	return err
}
