package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/alanraiden/novelweb/middleware"
	"github.com/alanraiden/novelweb/models"
	"github.com/alanraiden/novelweb/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthorsHandler struct {
	DB *store.DB
}

type ApplyAuthorshipRequest struct {
	PenName string `json:"penName"`
	Bio     string `json:"bio"`
}

type AuthorResponse struct {
	ID        primitive.ObjectID   `json:"id"`
	User      *UserSummary         `json:"user,omitempty"`
	PenName   string               `json:"penName"`
	Bio       string               `json:"bio"`
	Novels    []NovelSummary       `json:"novels"`
	Followers []primitive.ObjectID `json:"followers"`
	CreatedAt time.Time            `json:"createdAt"`
}

func populateAuthors(ctx context.Context, db *store.DB, authors []models.Author) ([]AuthorResponse, error) {
	var userIDs, novelIDs []primitive.ObjectID
	for _, a := range authors {
		userIDs = append(userIDs, a.UserID)
		novelIDs = append(novelIDs, a.Novels...)
	}
	users, err := userSummaryMap(ctx, db, userIDs)
	if err != nil {
		return nil, err
	}
	novels, err := db.NovelsByIDs(ctx, novelIDs)
	if err != nil {
		return nil, err
	}
	novelMap := make(map[primitive.ObjectID]NovelSummary, len(novels))
	for _, n := range novels {
		novelMap[n.ID] = NovelSummary{ID: n.ID, Title: n.Title, Description: n.Description}
	}

	out := make([]AuthorResponse, 0, len(authors))
	for _, a := range authors {
		resp := AuthorResponse{
			ID:        a.ID,
			User:      users[a.UserID],
			PenName:   a.PenName,
			Bio:       a.Bio,
			Novels:    []NovelSummary{},
			Followers: a.Followers,
			CreatedAt: a.CreatedAt,
		}
		for _, id := range a.Novels {
			if s, ok := novelMap[id]; ok {
				resp.Novels = append(resp.Novels, s)
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

// Apply promotes the caller to author: it creates the author profile and
// flips user.role in one transaction, so an interrupted promotion cannot
// leave an orphaned author record behind.
func (h *AuthorsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req ApplyAuthorshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	req.PenName = strings.TrimSpace(req.PenName)
	req.Bio = strings.TrimSpace(req.Bio)
	if req.PenName == "" || req.Bio == "" {
		http.Error(w, `{"error":"pen name and bio are required"}`, http.StatusBadRequest)
		return
	}

	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"server error"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	if user.Role == models.RoleAuthor {
		http.Error(w, `{"error":"user is already an author"}`, http.StatusConflict)
		return
	}
	existing, err := h.DB.AuthorByPenName(r.Context(), req.PenName)
	if err != nil {
		http.Error(w, `{"error":"server error"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, `{"error":"pen name is already taken"}`, http.StatusConflict)
		return
	}

	now := time.Now()
	author := &models.Author{
		UserID:    userID,
		PenName:   req.PenName,
		Bio:       req.Bio,
		Novels:    []primitive.ObjectID{},
		Followers: []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = h.DB.WithTransaction(r.Context(), func(ctx context.Context) error {
		id, err := h.DB.CreateAuthor(ctx, author)
		if err != nil {
			return err
		}
		author.ID = id
		return h.DB.SetUserRole(ctx, userID, models.RoleAuthor)
	})
	if err != nil {
		if store.IsDuplicateKey(err) {
			http.Error(w, `{"error":"pen name is already taken"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"failed to create author"}`, http.StatusInternalServerError)
		return
	}

	out, err := populateAuthors(r.Context(), h.DB, []models.Author{*author})
	if err != nil {
		http.Error(w, `{"error":"failed to create author"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"msg":    "you have become an author",
		"author": out[0],
	})
}

func (h *AuthorsHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.DB.ListAuthors(r.Context())
	if err != nil {
		http.Error(w, `{"error":"failed to fetch authors"}`, http.StatusInternalServerError)
		return
	}
	out, err := populateAuthors(r.Context(), h.DB, authors)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch authors"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (h *AuthorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid author id"}`, http.StatusBadRequest)
		return
	}
	author, err := h.DB.AuthorByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch author"}`, http.StatusInternalServerError)
		return
	}
	if author == nil {
		http.Error(w, `{"error":"author not found"}`, http.StatusNotFound)
		return
	}
	out, err := populateAuthors(r.Context(), h.DB, []models.Author{*author})
	if err != nil {
		http.Error(w, `{"error":"failed to fetch author"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out[0])
}

// Dashboard returns the caller's own author profile.
func (h *AuthorsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	author, err := h.DB.AuthorByUserID(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch author"}`, http.StatusInternalServerError)
		return
	}
	if author == nil {
		http.Error(w, `{"error":"author not found"}`, http.StatusNotFound)
		return
	}
	out, err := populateAuthors(r.Context(), h.DB, []models.Author{*author})
	if err != nil {
		http.Error(w, `{"error":"failed to fetch author"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out[0])
}
