package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants for user authorization.
const (
	RoleUser   = "user"
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

var ValidRoles = []string{RoleUser, RoleAuthor, RoleAdmin}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// DefaultUserImage is assigned at signup when no profile image is provided.
const DefaultUserImage = "https://images.unsplash.com/photo-1511367461989-f85a21fda167"

type User struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Email       string               `bson:"email" json:"email"`
	Password    string               `bson:"password" json:"-"` // bcrypt hash
	Role        string               `bson:"role" json:"role"`  // user, author, admin
	UserImage   string               `bson:"userimage" json:"userimage"`
	Posts       []primitive.ObjectID `bson:"posts" json:"posts"`
	Reviews     []primitive.ObjectID `bson:"reviews" json:"reviews"`
	LikedNovels []primitive.ObjectID `bson:"likedNovels" json:"likedNovels"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}
