package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleIDAddsAndRemoves(t *testing.T) {
	user := primitive.NewObjectID()

	likes, liked := ToggleID(nil, user)
	require.True(t, liked)
	require.True(t, ContainsID(likes, user))

	likes, liked = ToggleID(likes, user)
	require.False(t, liked)
	require.False(t, ContainsID(likes, user))
	require.Empty(t, likes)
}

// Toggling twice is an involution: the like-set returns to its original
// membership for that user.
func TestToggleIDInvolution(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	likes := []primitive.ObjectID{a, b}

	once, _ := ToggleID(likes, c)
	twice, _ := ToggleID(once, c)
	require.ElementsMatch(t, []primitive.ObjectID{a, b}, twice)

	once, _ = ToggleID(twice, a)
	twice, _ = ToggleID(once, a)
	require.True(t, ContainsID(twice, a))
	require.True(t, ContainsID(twice, b))
	require.Len(t, twice, 2)
}

func TestToggleIDPreservesOthers(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	likes := []primitive.ObjectID{a, b, c}

	likes, liked := ToggleID(likes, b)
	require.False(t, liked)
	require.ElementsMatch(t, []primitive.ObjectID{a, c}, likes)
}

// The novel-like mirror holds only when the same toggle is applied to both
// sides. Applying it to novel.likes but skipping user.likedNovels (the
// partial-failure case the transactional path exists to prevent) leaves
// the two memberships disagreeing.
func TestNovelLikeMirror(t *testing.T) {
	user := primitive.NewObjectID()
	novel := primitive.NewObjectID()

	var novelLikes, likedNovels []primitive.ObjectID

	// Both writes applied: memberships agree.
	novelLikes, _ = ToggleID(novelLikes, user)
	likedNovels, _ = ToggleID(likedNovels, novel)
	require.Equal(t, ContainsID(novelLikes, user), ContainsID(likedNovels, novel))

	// Second write skipped: memberships diverge.
	novelLikes, _ = ToggleID(novelLikes, user)
	require.False(t, ContainsID(novelLikes, user))
	require.True(t, ContainsID(likedNovels, novel))
	require.NotEqual(t, ContainsID(novelLikes, user), ContainsID(likedNovels, novel))
}
