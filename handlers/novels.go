package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alanraiden/novelweb/middleware"
	"github.com/alanraiden/novelweb/models"
	"github.com/alanraiden/novelweb/service"
	"github.com/alanraiden/novelweb/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NovelsHandler struct {
	DB       *store.DB
	Storage  *service.StorageService
	MaxBytes int64
}

type NovelAuthorSummary struct {
	ID      primitive.ObjectID `json:"id"`
	PenName string             `json:"penName"`
	Bio     string             `json:"bio"`
	User    *UserSummary       `json:"user,omitempty"`
}

type NovelResponse struct {
	ID          primitive.ObjectID   `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	CoverPhoto  models.Media         `json:"coverPhoto"`
	IntroVideo  *models.Media        `json:"introVideo,omitempty"`
	Author      *NovelAuthorSummary  `json:"author,omitempty"`
	Likes       []primitive.ObjectID `json:"likes"`
	Chapters    []ChapterSummary     `json:"chapters"`
	Reviews     []ReviewResponse     `json:"reviews"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// populateNovels resolves author, chapter and review refs for a batch of
// novels with one query per collection.
func populateNovels(ctx context.Context, db *store.DB, novels []models.Novel) ([]NovelResponse, error) {
	var authorIDs, novelIDs, reviewIDs []primitive.ObjectID
	for _, n := range novels {
		authorIDs = append(authorIDs, n.AuthorID)
		novelIDs = append(novelIDs, n.ID)
		reviewIDs = append(reviewIDs, n.Reviews...)
	}

	authors, err := db.AuthorsByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	var authorUserIDs []primitive.ObjectID
	for _, a := range authors {
		authorUserIDs = append(authorUserIDs, a.UserID)
	}
	users, err := userSummaryMap(ctx, db, authorUserIDs)
	if err != nil {
		return nil, err
	}
	authorMap := make(map[primitive.ObjectID]*NovelAuthorSummary, len(authors))
	for _, a := range authors {
		authorMap[a.ID] = &NovelAuthorSummary{
			ID:      a.ID,
			PenName: a.PenName,
			Bio:     a.Bio,
			User:    users[a.UserID],
		}
	}

	chapters, err := db.ChaptersByNovelIDs(ctx, novelIDs)
	if err != nil {
		return nil, err
	}
	chapterMap := make(map[primitive.ObjectID][]ChapterSummary)
	for _, c := range chapters {
		chapterMap[c.NovelID] = append(chapterMap[c.NovelID], ChapterSummary{
			ID:            c.ID,
			ChapterNumber: c.ChapterNumber,
			ChapterName:   c.ChapterName,
		})
	}

	reviews, err := db.ReviewsByIDs(ctx, reviewIDs)
	if err != nil {
		return nil, err
	}
	populated, err := populateReviews(ctx, db, reviews)
	if err != nil {
		return nil, err
	}
	reviewMap := make(map[primitive.ObjectID]ReviewResponse, len(populated))
	for _, rev := range populated {
		reviewMap[rev.ID] = rev
	}

	out := make([]NovelResponse, 0, len(novels))
	for _, n := range novels {
		resp := NovelResponse{
			ID:          n.ID,
			Title:       n.Title,
			Description: n.Description,
			CoverPhoto:  n.CoverPhoto,
			IntroVideo:  n.IntroVideo,
			Author:      authorMap[n.AuthorID],
			Likes:       n.Likes,
			Chapters:    chapterMap[n.ID],
			Reviews:     []ReviewResponse{},
			CreatedAt:   n.CreatedAt,
		}
		if resp.Chapters == nil {
			resp.Chapters = []ChapterSummary{}
		}
		for _, id := range n.Reviews {
			if rev, ok := reviewMap[id]; ok {
				resp.Reviews = append(resp.Reviews, rev)
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

// Create uploads the cover photo (required) and intro video (optional) to
// object storage and inserts the novel under the caller's author profile.
func (h *NovelsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	author, err := h.DB.AuthorByUserID(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"server error"}`, http.StatusInternalServerError)
		return
	}
	if author == nil {
		http.Error(w, `{"error":"author not found"}`, http.StatusNotFound)
		return
	}

	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		http.Error(w, `{"error":"failed to parse multipart form"}`, http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" || description == "" {
		http.Error(w, `{"error":"title and description are required"}`, http.StatusBadRequest)
		return
	}
	if h.Storage == nil {
		http.Error(w, `{"error":"upload not configured"}`, http.StatusServiceUnavailable)
		return
	}

	coverFile, coverHeader, err := r.FormFile("coverPhoto")
	if err != nil {
		http.Error(w, `{"error":"cover photo is required"}`, http.StatusBadRequest)
		return
	}
	defer coverFile.Close()
	coverType := coverHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(coverType, "image/") {
		http.Error(w, `{"error":"only image files are allowed for cover photos"}`, http.StatusBadRequest)
		return
	}
	coverKey, coverURL, err := h.Storage.Upload(r.Context(), "covers/", coverHeader.Filename, coverFile, coverType)
	if err != nil {
		http.Error(w, `{"error":"failed to store cover photo"}`, http.StatusInternalServerError)
		return
	}

	var introVideo *models.Media
	if videoFile, videoHeader, err := r.FormFile("introVideo"); err == nil {
		defer videoFile.Close()
		videoType := videoHeader.Header.Get("Content-Type")
		if videoType != "video/mp4" && videoType != "video/webm" && videoType != "video/ogg" {
			http.Error(w, `{"error":"intro video must be MP4, WebM or OGG"}`, http.StatusBadRequest)
			return
		}
		videoKey, videoURL, err := h.Storage.Upload(r.Context(), "intro-videos/", videoHeader.Filename, videoFile, videoType)
		if err != nil {
			http.Error(w, `{"error":"failed to store intro video"}`, http.StatusInternalServerError)
			return
		}
		introVideo = &models.Media{URL: videoURL, Key: videoKey}
	} else if url := strings.TrimSpace(r.FormValue("introVideo")); url != "" {
		// External video link, nothing stored on our side.
		introVideo = &models.Media{URL: url}
	}

	now := time.Now()
	novel := &models.Novel{
		Title:       title,
		Description: description,
		CoverPhoto:  models.Media{URL: coverURL, Key: coverKey},
		IntroVideo:  introVideo,
		AuthorID:    author.ID,
		Likes:       []primitive.ObjectID{},
		Chapters:    []primitive.ObjectID{},
		Reviews:     []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := h.DB.CreateNovel(r.Context(), novel)
	if err != nil {
		http.Error(w, `{"error":"failed to create novel"}`, http.StatusInternalServerError)
		return
	}
	novel.ID = id
	if err := h.DB.AppendAuthorNovel(r.Context(), author.ID, id); err != nil {
		http.Error(w, `{"error":"failed to create novel"}`, http.StatusInternalServerError)
		return
	}

	out, err := populateNovels(r.Context(), h.DB, []models.Novel{*novel})
	if err != nil {
		http.Error(w, `{"error":"failed to create novel"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(out[0])
}

func (h *NovelsHandler) List(w http.ResponseWriter, r *http.Request) {
	novels, err := h.DB.ListNovels(r.Context())
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

func (h *NovelsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid novel id"}`, http.StatusBadRequest)
		return
	}
	novel, err := h.DB.NovelByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch novel"}`, http.StatusInternalServerError)
		return
	}
	if novel == nil {
		http.Error(w, `{"error":"novel not found"}`, http.StatusNotFound)
		return
	}
	out, err := populateNovels(r.Context(), h.DB, []models.Novel{*novel})
	if err != nil {
		http.Error(w, `{"error":"failed to fetch novel"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out[0])
}

func (h *NovelsHandler) ByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "authorId"))
	if err != nil {
		http.Error(w, `{"error":"invalid author id"}`, http.StatusBadRequest)
		return
	}
	novels, err := h.DB.NovelsByAuthor(r.Context(), authorID)
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

// Search matches query as a case-insensitive substring of novel titles.
// Queries under 3 characters are rejected; at most 20 results come back.
func (h *NovelsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if utf8.RuneCountInString(query) < 3 {
		http.Error(w, `{"error":"search query must be at least 3 characters"}`, http.StatusBadRequest)
		return
	}
	novels, err := h.DB.SearchNovels(r.Context(), query)
	if err != nil {
		http.Error(w, `{"error":"failed to search novels"}`, http.StatusInternalServerError)
		return
	}
	out, err := populateNovels(r.Context(), h.DB, novels)
	if err != nil {
		http.Error(w, `{"error":"failed to search novels"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

type UpdateNovelRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Update edits title/description. Only the owning author may update.
func (h *NovelsHandler) Update(w http.ResponseWriter, r *http.Request) {
	novel, _, ok := h.ownedNovel(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateNovelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	updates := bson.M{}
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if len(updates) > 0 {
		updates["updatedAt"] = time.Now()
		if err := h.DB.UpdateNovel(r.Context(), novel.ID, updates); err != nil {
			http.Error(w, `{"error":"failed to update novel"}`, http.StatusInternalServerError)
			return
		}
	}

	novel, err := h.DB.NovelByID(r.Context(), novel.ID)
	if err != nil || novel == nil {
		http.Error(w, `{"error":"failed to update novel"}`, http.StatusInternalServerError)
		return
	}
	out, err := populateNovels(r.Context(), h.DB, []models.Novel{*novel})
	if err != nil {
		http.Error(w, `{"error":"failed to update novel"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out[0])
}

// Delete removes the novel, cascading to its chapters, its reviews, the
// author's novel list, and any stored media objects.
func (h *NovelsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	novel, author, ok := h.ownedNovel(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.DB.DeleteNovel(r.Context(), novel.ID); err != nil {
		http.Error(w, `{"error":"failed to delete novel"}`, http.StatusInternalServerError)
		return
	}
	if err := h.DB.RemoveAuthorNovel(r.Context(), author.ID, novel.ID); err != nil {
		log.Printf("delete novel: author cleanup: %v", err)
	}
	if h.Storage != nil {
		if novel.CoverPhoto.Key != "" {
			if err := h.Storage.Delete(r.Context(), novel.CoverPhoto.Key); err != nil {
				log.Printf("delete novel: cover object: %v", err)
			}
		}
		if novel.IntroVideo != nil && novel.IntroVideo.Key != "" {
			if err := h.Storage.Delete(r.Context(), novel.IntroVideo.Key); err != nil {
				log.Printf("delete novel: video object: %v", err)
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"msg": "novel deleted successfully"})
}

// ToggleLike flips the caller's membership in novel.likes and mirrors it
// onto user.likedNovels. Both writes run in one transaction so the mirror
// cannot diverge on a partial failure.
func (h *NovelsHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	novelID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "novelId"))
	if err != nil {
		http.Error(w, `{"error":"invalid novel id"}`, http.StatusBadRequest)
		return
	}

	var novel *models.Novel
	var user *models.User
	err = h.DB.WithTransaction(r.Context(), func(ctx context.Context) error {
		var err error
		novel, err = h.DB.NovelByID(ctx, novelID)
		if err != nil {
			return err
		}
		if novel == nil {
			return nil
		}
		user, err = h.DB.UserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return nil
		}

		novel.Likes, _ = models.ToggleID(novel.Likes, userID)
		likedNovels, _ := models.ToggleID(user.LikedNovels, novelID)
		if err := h.DB.SetNovelLikes(ctx, novelID, novel.Likes); err != nil {
			return err
		}
		return h.DB.SetUserLikedNovels(ctx, userID, likedNovels)
	})
	if err != nil {
		http.Error(w, `{"error":"failed to like novel"}`, http.StatusInternalServerError)
		return
	}
	if novel == nil {
		http.Error(w, `{"error":"novel not found"}`, http.StatusNotFound)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	out, err := populateNovels(r.Context(), h.DB, []models.Novel{*novel})
	if err != nil {
		http.Error(w, `{"error":"failed to like novel"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out[0])
}

// ownedNovel loads the novel and verifies the caller's author profile owns
// it, writing the error response itself when the check fails.
func (h *NovelsHandler) ownedNovel(w http.ResponseWriter, r *http.Request, idParam string) (*models.Novel, *models.Author, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return nil, nil, false
	}
	id, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		http.Error(w, `{"error":"invalid novel id"}`, http.StatusBadRequest)
		return nil, nil, false
	}
	novel, err := h.DB.NovelByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"server error"}`, http.StatusInternalServerError)
		return nil, nil, false
	}
	if novel == nil {
		http.Error(w, `{"error":"novel not found"}`, http.StatusNotFound)
		return nil, nil, false
	}
	author, err := h.DB.AuthorByUserID(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"server error"}`, http.StatusInternalServerError)
		return nil, nil, false
	}
	if author == nil || author.ID != novel.AuthorID {
		http.Error(w, `{"error":"forbidden: not your novel"}`, http.StatusForbidden)
		return nil, nil, false
	}
	return novel, author, true
}
