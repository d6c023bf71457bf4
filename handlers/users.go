package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alanraiden/novelweb/middleware"
	"github.com/alanraiden/novelweb/models"
	"github.com/alanraiden/novelweb/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UsersHandler struct {
	DB *store.DB
}

type UserResponse struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Role        string             `json:"role"`
	UserImage   string             `json:"userimage"`
	Posts       []PostSummary      `json:"posts"`
	Reviews     []ReviewSummary    `json:"reviews"`
	LikedNovels []NovelSummary     `json:"likedNovels"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// populateUsers swaps each user's post/review/liked-novel refs for
// summaries, batching one query per collection across all users.
func populateUsers(ctx context.Context, db *store.DB, users []models.User) ([]UserResponse, error) {
	var postIDs, reviewIDs, novelIDs []primitive.ObjectID
	for _, u := range users {
		postIDs = append(postIDs, u.Posts...)
		reviewIDs = append(reviewIDs, u.Reviews...)
		novelIDs = append(novelIDs, u.LikedNovels...)
	}

	posts, err := db.PostsByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	reviews, err := db.ReviewsByIDs(ctx, reviewIDs)
	if err != nil {
		return nil, err
	}
	novels, err := db.NovelsByIDs(ctx, novelIDs)
	if err != nil {
		return nil, err
	}

	postMap := make(map[primitive.ObjectID]PostSummary, len(posts))
	for _, p := range posts {
		postMap[p.ID] = PostSummary{ID: p.ID, Title: p.Title, Content: p.Content}
	}
	reviewMap := make(map[primitive.ObjectID]ReviewSummary, len(reviews))
	for _, r := range reviews {
		reviewMap[r.ID] = ReviewSummary{ID: r.ID, Title: r.Title, Content: r.Content}
	}
	novelMap := make(map[primitive.ObjectID]NovelSummary, len(novels))
	for _, n := range novels {
		novelMap[n.ID] = NovelSummary{ID: n.ID, Title: n.Title}
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp := UserResponse{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			Role:        u.Role,
			UserImage:   u.UserImage,
			Posts:       []PostSummary{},
			Reviews:     []ReviewSummary{},
			LikedNovels: []NovelSummary{},
			CreatedAt:   u.CreatedAt,
		}
		for _, id := range u.Posts {
			if s, ok := postMap[id]; ok {
				resp.Posts = append(resp.Posts, s)
			}
		}
		for _, id := range u.Reviews {
			if s, ok := reviewMap[id]; ok {
				resp.Reviews = append(resp.Reviews, s)
			}
		}
		for _, id := range u.LikedNovels {
			if s, ok := novelMap[id]; ok {
				resp.LikedNovels = append(resp.LikedNovels, s)
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.DB.ListUsers(r.Context())
	if err != nil {
		http.Error(w, `{"error":"failed to fetch users"}`, http.StatusInternalServerError)
		return
	}
	out, err := populateUsers(r.Context(), h.DB, users)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch users"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (h *UsersHandler) ByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	users, err := h.DB.UsersByName(r.Context(), name)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch user"}`, http.StatusInternalServerError)
		return
	}
	if len(users) == 0 {
		http.Error(w, `{"error":"no users found"}`, http.StatusNotFound)
		return
	}
	out, err := populateUsers(r.Context(), h.DB, users)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch user"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Me returns the authenticated caller's profile.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch user"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	out, err := populateUsers(r.Context(), h.DB, []models.User{*user})
	if err != nil {
		http.Error(w, `{"error":"failed to fetch user"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out[0])
}

// LikedNovels returns the caller's liked novels, fully populated.
func (h *UsersHandler) LikedNovels(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch novels"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	novels, err := h.DB.NovelsByIDs(r.Context(), user.LikedNovels)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch novels"}`, http.StatusInternalServerError)
		return
	}
	out, err := populateNovels(r.Context(), h.DB, novels)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch novels"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
