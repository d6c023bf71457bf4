package store

import (
	"context"

	"github.com/alanraiden/novelweb/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) CreatePost(ctx context.Context, post *models.Post) (primitive.ObjectID, error) {
	res, err := db.Posts().InsertOne(ctx, post)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) PostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	err := db.Posts().FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) ListPosts(ctx context.Context) ([]models.Post, error) {
	return db.findPosts(ctx, bson.M{})
}

func (db *DB) PostsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	return db.findPosts(ctx, bson.M{"user": userID})
}

func (db *DB) PostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return db.findPosts(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (db *DB) findPosts(ctx context.Context, filter bson.M) ([]models.Post, error) {
	cur, err := db.Posts().Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// AppendComment pushes an embedded comment onto the post.
func (db *DB) AppendComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	_, err := db.Posts().UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$push": bson.M{"comments": comment}})
	return err
}

// SetPostLikes replaces the post's like-set with the toggled set computed
// by the caller.
func (db *DB) SetPostLikes(ctx context.Context, id primitive.ObjectID, likes []primitive.ObjectID) error {
	_, err := db.Posts().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"likes": likes}})
	return err
}

// SetCommentLikes replaces the like-set of one embedded comment.
func (db *DB) SetCommentLikes(ctx context.Context, postID, commentID primitive.ObjectID, likes []primitive.ObjectID) error {
	_, err := db.Posts().UpdateOne(ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{"$set": bson.M{"comments.$.likes": likes}})
	return err
}
