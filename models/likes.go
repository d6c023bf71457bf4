package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ContainsID reports whether id is a member of ids.
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ToggleID flips id's membership in ids: removed when present, appended
// when absent. Returns the new slice and whether id is now a member. Every
// like-set in the system (novels, reviews, replies, posts, comments) and
// the user.likedNovels mirror go through this so both sides of a mirrored
// relation apply the same toggle.
func ToggleID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...), false
		}
	}
	return append(ids, id), true
}
