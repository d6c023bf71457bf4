package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alanraiden/novelweb/middleware"
	"github.com/alanraiden/novelweb/models"
	"github.com/alanraiden/novelweb/store"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const flowSecret = "flow-test-secret"

func flowDB(t *testing.T) *store.DB {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := store.NewMongoDB(ctx, uri, "novelhub_api_test_"+primitive.NewObjectID().Hex())
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

func flowRouter(db *store.DB) http.Handler {
	authHandler := &AuthHandler{DB: db, JWTSecret: flowSecret}
	usersHandler := &UsersHandler{DB: db}
	authorsHandler := &AuthorsHandler{DB: db}
	chaptersHandler := &ChaptersHandler{DB: db}
	novelsHandler := &NovelsHandler{DB: db}

	auth := middleware.Auth(flowSecret)
	authorOnly := middleware.RequireRole(db, models.RoleAuthor)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.With(auth).Get("/users/me", usersHandler.Me)
		r.With(auth).Post("/authors/applyAuthorship", authorsHandler.Apply)
		r.With(auth).Get("/chapters/{novelId}/chapters", chaptersHandler.List)
		r.With(auth, authorOnly).Post("/chapters/{novelId}/new-chapter", chaptersHandler.Upload)
		r.With(auth).Post("/novels/{novelId}/toggle-like", novelsHandler.ToggleLike)
	})
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestAuthorPromotionFlow walks the path a writer takes: sign up, log in,
// get rejected from chapter upload as a plain user, apply for authorship,
// then upload chapters and see them numbered sequentially.
func TestAuthorPromotionFlow(t *testing.T) {
	db := flowDB(t)
	h := flowRouter(db)
	ctx := context.Background()

	signup := map[string]string{
		"name":     "Flow Writer",
		"email":    "writer@flow.test",
		"password": "hunter22",
	}
	rec := doJSON(t, h, http.MethodPost, "/api/auth/signup", "", signup)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/signup", "", signup)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "writer@flow.test", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "writer@flow.test", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))
	require.NotEmpty(t, login.Token)

	rec = doJSON(t, h, http.MethodGet, "/api/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	require.Equal(t, "writer@flow.test", me.Email)
	require.Equal(t, models.RoleUser, me.Role)

	// A plain user cannot upload chapters.
	rec = doJSON(t, h, http.MethodPost,
		"/api/chapters/"+primitive.NewObjectID().Hex()+"/new-chapter", login.Token,
		map[string]string{"chapterName": "One", "chapterContent": "text"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/authors/applyAuthorship", login.Token, map[string]string{
		"penName": "Flow Pen", "bio": "writes flows",
	})
	if rec.Code == http.StatusInternalServerError {
		t.Skip("transactions unavailable on this mongo deployment")
	}
	require.Equal(t, http.StatusOK, rec.Code)

	// The role gate re-reads the store, so the fresh promotion takes
	// effect without a new token.
	author, err := db.AuthorByUserID(ctx, me.ID)
	require.NoError(t, err)
	require.NotNil(t, author)

	now := time.Now()
	novelID, err := db.CreateNovel(ctx, &models.Novel{
		Title:       "Flow Novel",
		Description: "a test run",
		CoverPhoto:  models.Media{URL: "https://example.com/cover.jpg"},
		AuthorID:    author.ID,
		Likes:       []primitive.ObjectID{},
		Chapters:    []primitive.ObjectID{},
		Reviews:     []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)

	for i, name := range []string{"The Start", "The Middle"} {
		rec = doJSON(t, h, http.MethodPost,
			"/api/chapters/"+novelID.Hex()+"/new-chapter", login.Token,
			map[string]string{"chapterName": name, "chapterContent": "words"})
		require.Equal(t, http.StatusCreated, rec.Code)
		var ch models.Chapter
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&ch))
		require.Equal(t, i+1, ch.ChapterNumber)
	}

	// Reading a novel's chapter list requires a login.
	rec = doJSON(t, h, http.MethodGet, "/api/chapters/"+novelID.Hex()+"/chapters", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/chapters/"+novelID.Hex()+"/chapters", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var chapters []models.Chapter
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&chapters))
	require.Len(t, chapters, 2)

	// Liking with a valid token whose account no longer exists reports the
	// missing user instead of a phantom success.
	ghost, err := IssueToken(flowSecret, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	rec = doJSON(t, h, http.MethodPost, "/api/novels/"+novelID.Hex()+"/toggle-like", ghost, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/novels/"+novelID.Hex()+"/toggle-like", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var liked NovelResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&liked))
	require.Len(t, liked.Likes, 1)
	require.Equal(t, me.ID, liked.Likes[0])
}
