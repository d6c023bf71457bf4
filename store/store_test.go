package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alanraiden/novelweb/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testDB connects to the MongoDB named by MONGODB_TEST_URI and hands back
// a throwaway database. Tests are skipped when the variable is unset.
func testDB(t *testing.T) *DB {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := NewMongoDB(ctx, uri, "novelhub_test_"+primitive.NewObjectID().Hex())
	require.NoError(t, err)
	require.NoError(t, db.EnsureIndexes(ctx))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Database.Drop(ctx)
		_ = db.Disconnect(ctx)
	})
	return db
}

func newUser(email string) *models.User {
	now := time.Now()
	return &models.User{
		Name:        "Test User",
		Email:       email,
		Password:    "hash",
		Role:        models.RoleUser,
		UserImage:   models.DefaultUserImage,
		Posts:       []primitive.ObjectID{},
		Reviews:     []primitive.ObjectID{},
		LikedNovels: []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestUserCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := db.CreateUser(ctx, newUser("ann@x.com"))
	require.NoError(t, err)

	byEmail, err := db.UserByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	require.Equal(t, id, byEmail.ID)

	byID, err := db.UserByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	require.Equal(t, "ann@x.com", byID.Email)

	missing, err := db.UserByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUserEmailUnique(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.CreateUser(ctx, newUser("dup@x.com"))
	require.NoError(t, err)

	_, err = db.CreateUser(ctx, newUser("dup@x.com"))
	require.Error(t, err)
	require.True(t, IsDuplicateKey(err))
}

// Role writes are validated before any query runs, so this needs no
// database.
func TestSetUserRoleRejectsUnknownRole(t *testing.T) {
	db := &DB{}
	err := db.SetUserRole(context.Background(), primitive.NewObjectID(), "superadmin")
	require.Error(t, err)
}

func TestUserRoleFlip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := db.CreateUser(ctx, newUser("role@x.com"))
	require.NoError(t, err)

	role, err := db.UserRole(ctx, id)
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, role)

	require.NoError(t, db.SetUserRole(ctx, id, models.RoleAuthor))

	role, err = db.UserRole(ctx, id)
	require.NoError(t, err)
	require.Equal(t, models.RoleAuthor, role)

	// Unknown user reports an empty role, not an error.
	role, err = db.UserRole(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	require.Empty(t, role)
}

func TestAuthorUniqueness(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID, err := db.CreateUser(ctx, newUser("pen@x.com"))
	require.NoError(t, err)

	now := time.Now()
	author := &models.Author{
		UserID:    userID,
		PenName:   "Ink Weaver",
		Bio:       "writes things",
		Novels:    []primitive.ObjectID{},
		Followers: []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = db.CreateAuthor(ctx, author)
	require.NoError(t, err)

	byUser, err := db.AuthorByUserID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, byUser)
	require.Equal(t, "Ink Weaver", byUser.PenName)

	byPen, err := db.AuthorByPenName(ctx, "Ink Weaver")
	require.NoError(t, err)
	require.NotNil(t, byPen)

	otherUser, err := db.CreateUser(ctx, newUser("pen2@x.com"))
	require.NoError(t, err)
	dup := &models.Author{
		UserID:    otherUser,
		PenName:   "Ink Weaver",
		Novels:    []primitive.ObjectID{},
		Followers: []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = db.CreateAuthor(ctx, dup)
	require.Error(t, err)
	require.True(t, IsDuplicateKey(err))
}

func TestChapterNumberUniquePerNovel(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	novelID := primitive.NewObjectID()
	now := time.Now()
	first := &models.Chapter{
		NovelID:       novelID,
		ChapterNumber: 1,
		ChapterName:   "The Beginning",
		Content:       "Once upon a time.",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err := db.CreateChapter(ctx, first)
	require.NoError(t, err)

	// A second writer racing on the same number must conflict, not
	// silently duplicate it.
	dup := &models.Chapter{
		NovelID:       novelID,
		ChapterNumber: 1,
		ChapterName:   "The Beginning Again",
		Content:       "Twice upon a time.",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err = db.CreateChapter(ctx, dup)
	require.Error(t, err)
	require.True(t, IsDuplicateKey(err))

	// The same number on a different novel is fine.
	other := &models.Chapter{
		NovelID:       primitive.NewObjectID(),
		ChapterNumber: 1,
		ChapterName:   "Another Beginning",
		Content:       "Elsewhere.",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err = db.CreateChapter(ctx, other)
	require.NoError(t, err)
}

func TestNovelLikeMirrorWrites(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	userID, err := db.CreateUser(ctx, newUser("likes@x.com"))
	require.NoError(t, err)

	now := time.Now()
	novel := &models.Novel{
		Title:       "Voyage",
		Description: "a long trip",
		CoverPhoto:  models.Media{URL: "https://example.com/cover.jpg"},
		AuthorID:    primitive.NewObjectID(),
		Likes:       []primitive.ObjectID{},
		Chapters:    []primitive.ObjectID{},
		Reviews:     []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	novelID, err := db.CreateNovel(ctx, novel)
	require.NoError(t, err)

	require.NoError(t, db.SetNovelLikes(ctx, novelID, []primitive.ObjectID{userID}))
	require.NoError(t, db.SetUserLikedNovels(ctx, userID, []primitive.ObjectID{novelID}))

	gotNovel, err := db.NovelByID(ctx, novelID)
	require.NoError(t, err)
	gotUser, err := db.UserByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t,
		models.ContainsID(gotNovel.Likes, userID),
		models.ContainsID(gotUser.LikedNovels, novelID))
	require.True(t, models.ContainsID(gotNovel.Likes, userID))
}

func TestSearchNovelsLimit(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	now := time.Now()
	for i := 0; i < SearchResultLimit+5; i++ {
		novel := &models.Novel{
			Title:       "Dragon Chronicles",
			Description: "fire",
			CoverPhoto:  models.Media{URL: "https://example.com/cover.jpg"},
			AuthorID:    primitive.NewObjectID(),
			Likes:       []primitive.ObjectID{},
			Chapters:    []primitive.ObjectID{},
			Reviews:     []primitive.ObjectID{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		_, err := db.CreateNovel(ctx, novel)
		require.NoError(t, err)
	}

	// Case-insensitive substring match, capped.
	got, err := db.SearchNovels(ctx, "dragon")
	require.NoError(t, err)
	require.Len(t, got, SearchResultLimit)

	got, err = db.SearchNovels(ctx, "RAGON CHRON")
	require.NoError(t, err)
	require.Len(t, got, SearchResultLimit)

	got, err = db.SearchNovels(ctx, "zzz-not-there")
	require.NoError(t, err)
	require.Empty(t, got)
}
