package store

import (
	"context"
	"fmt"

	"github.com/alanraiden/novelweb/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserRole returns the caller's current role straight from the users
// collection. The role gate reads this on every request rather than
// trusting the token payload.
func (db *DB) UserRole(ctx context.Context, id primitive.ObjectID) (string, error) {
	var u struct {
		Role string `bson:"role"`
	}
	err := db.Users().FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"role": 1})).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (db *DB) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	res, err := db.Users().InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := db.Users().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UsersByName matches name case-insensitively as a substring.
func (db *DB) UsersByName(ctx context.Context, name string) ([]models.User, error) {
	filter := bson.M{"name": bson.M{"$regex": primitive.Regex{Pattern: name, Options: "i"}}}
	cur, err := db.Users().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (db *DB) SetUserRole(ctx context.Context, id primitive.ObjectID, role string) error {
	if !models.IsValidRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	return err
}

// SetUserLikedNovels replaces the user's likedNovels mirror with the
// toggled set computed by the caller.
func (db *DB) SetUserLikedNovels(ctx context.Context, id primitive.ObjectID, novelIDs []primitive.ObjectID) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"likedNovels": novelIDs}})
	return err
}

func (db *DB) AppendUserPost(ctx context.Context, id, postID primitive.ObjectID) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"posts": postID}})
	return err
}

func (db *DB) AppendUserReview(ctx context.Context, id, reviewID primitive.ObjectID) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"reviews": reviewID}})
	return err
}

// UpdateGoogleUser refreshes the profile fields Google reports on each
// OAuth login.
func (db *DB) UpdateGoogleUser(ctx context.Context, id primitive.ObjectID, name, image, password string) error {
	updates := bson.M{"password": password}
	if name != "" {
		updates["name"] = name
	}
	if image != "" {
		updates["userimage"] = image
	}
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	return err
}

func (db *DB) UsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := db.Users().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
