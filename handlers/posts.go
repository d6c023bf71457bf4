package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/alanraiden/novelweb/middleware"
	"github.com/alanraiden/novelweb/models"
	"github.com/alanraiden/novelweb/service"
	"github.com/alanraiden/novelweb/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostsHandler struct {
	DB       *store.DB
	Storage  *service.StorageService
	MaxBytes int64
}

type CommentResponse struct {
	ID        primitive.ObjectID   `json:"id"`
	Content   string               `json:"content"`
	User      *UserSummary         `json:"user,omitempty"`
	Likes     []primitive.ObjectID `json:"likes"`
	CreatedAt time.Time            `json:"createdAt"`
}

type PostResponse struct {
	ID        primitive.ObjectID   `json:"id"`
	Title     string               `json:"title"`
	Content   string               `json:"content"`
	Image     models.Media         `json:"image"`
	User      *UserSummary         `json:"user,omitempty"`
	Likes     []primitive.ObjectID `json:"likes"`
	Comments  []CommentResponse    `json:"comments"`
	CreatedAt time.Time            `json:"createdAt"`
}

func populatePosts(ctx context.Context, db *store.DB, posts []models.Post) ([]PostResponse, error) {
	var userIDs []primitive.ObjectID
	for _, p := range posts {
		userIDs = append(userIDs, p.UserID)
		for _, c := range p.Comments {
			userIDs = append(userIDs, c.UserID)
		}
	}
	users, err := userSummaryMap(ctx, db, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		comments := make([]CommentResponse, 0, len(p.Comments))
		for _, c := range p.Comments {
			comments = append(comments, CommentResponse{
				ID:        c.ID,
				Content:   c.Content,
				User:      users[c.UserID],
				Likes:     c.Likes,
				CreatedAt: c.CreatedAt,
			})
		}
		out = append(out, PostResponse{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			Image:     p.Image,
			User:      users[p.UserID],
			Likes:     p.Likes,
			Comments:  comments,
			CreatedAt: p.CreatedAt,
		})
	}
	return out, nil
}

func (h *PostsHandler) populateOne(w http.ResponseWriter, r *http.Request, post *models.Post) {
	out, err := populatePosts(r.Context(), h.DB, []models.Post{*post})
	if err != nil {
		http.Error(w, `{"error":"failed to fetch post"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out[0])
}

// Create stores the post image and inserts the post, appending its id to
// the user's post list.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"failed to create post"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
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
	content := strings.TrimSpace(r.FormValue("content"))
	if title == "" || content == "" {
		http.Error(w, `{"error":"title and content are required"}`, http.StatusBadRequest)
		return
	}
	if h.Storage == nil {
		http.Error(w, `{"error":"upload not configured"}`, http.StatusServiceUnavailable)
		return
	}

	imageFile, imageHeader, err := r.FormFile("image")
	if err != nil {
		http.Error(w, `{"error":"image file is required"}`, http.StatusBadRequest)
		return
	}
	defer imageFile.Close()
	imageType := imageHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(imageType, "image/") {
		http.Error(w, `{"error":"only image files are allowed"}`, http.StatusBadRequest)
		return
	}
	imageKey, imageURL, err := h.Storage.Upload(r.Context(), "post-images/", imageHeader.Filename, imageFile, imageType)
	if err != nil {
		http.Error(w, `{"error":"failed to store image"}`, http.StatusInternalServerError)
		return
	}

	now := time.Now()
	post := &models.Post{
		Title:     title,
		Content:   content,
		Image:     models.Media{URL: imageURL, Key: imageKey},
		UserID:    userID,
		Likes:     []primitive.ObjectID{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := h.DB.CreatePost(r.Context(), post)
	if err != nil {
		http.Error(w, `{"error":"failed to create post"}`, http.StatusInternalServerError)
		return
	}
	post.ID = id
	if err := h.DB.AppendUserPost(r.Context(), userID, id); err != nil {
		http.Error(w, `{"error":"failed to create post"}`, http.StatusInternalServerError)
		return
	}

	out, err := populatePosts(r.Context(), h.DB, []models.Post{*post})
	if err != nil {
		http.Error(w, `{"error":"failed to create post"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(out[0])
}

func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.DB.ListPosts(r.Context())
	if err != nil {
		http.Error(w, `{"error":"failed to fetch posts"}`, http.StatusInternalServerError)
		return
	}
	out, err := populatePosts(r.Context(), h.DB, posts)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch posts"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid post id"}`, http.StatusBadRequest)
		return
	}
	post, err := h.DB.PostByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch post"}`, http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.Error(w, `{"error":"post not found"}`, http.StatusNotFound)
		return
	}
	h.populateOne(w, r, post)
}

// ByUser returns the caller's own posts.
func (h *PostsHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	posts, err := h.DB.PostsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch posts"}`, http.StatusInternalServerError)
		return
	}
	out, err := populatePosts(r.Context(), h.DB, posts)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch posts"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

type AddCommentRequest struct {
	Content string `json:"content"`
}

// AddComment appends an embedded comment to a post.
func (h *PostsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postId"))
	if err != nil {
		http.Error(w, `{"error":"invalid post id"}`, http.StatusBadRequest)
		return
	}
	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, `{"error":"content is required"}`, http.StatusBadRequest)
		return
	}

	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"failed to add comment"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	post, err := h.DB.PostByID(r.Context(), postID)
	if err != nil {
		http.Error(w, `{"error":"failed to add comment"}`, http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.Error(w, `{"error":"post not found"}`, http.StatusNotFound)
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   req.Content,
		UserID:    userID,
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}
	if err := h.DB.AppendComment(r.Context(), postID, comment); err != nil {
		http.Error(w, `{"error":"failed to add comment"}`, http.StatusInternalServerError)
		return
	}
	post.Comments = append(post.Comments, comment)
	h.populateOne(w, r, post)
}

// ToggleLike flips the caller's membership in the post's like-set.
func (h *PostsHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postId"))
	if err != nil {
		http.Error(w, `{"error":"invalid post id"}`, http.StatusBadRequest)
		return
	}
	post, err := h.DB.PostByID(r.Context(), postID)
	if err != nil {
		http.Error(w, `{"error":"failed to toggle post like"}`, http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.Error(w, `{"error":"post not found"}`, http.StatusNotFound)
		return
	}

	post.Likes, _ = models.ToggleID(post.Likes, userID)
	if err := h.DB.SetPostLikes(r.Context(), postID, post.Likes); err != nil {
		http.Error(w, `{"error":"failed to toggle post like"}`, http.StatusInternalServerError)
		return
	}
	h.populateOne(w, r, post)
}

// ToggleCommentLike flips the caller's membership in an embedded comment's
// like-set and returns the parent post.
func (h *PostsHandler) ToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postId"))
	if err != nil {
		http.Error(w, `{"error":"invalid post id"}`, http.StatusBadRequest)
		return
	}
	commentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "commentId"))
	if err != nil {
		http.Error(w, `{"error":"invalid comment id"}`, http.StatusBadRequest)
		return
	}

	post, err := h.DB.PostByID(r.Context(), postID)
	if err != nil {
		http.Error(w, `{"error":"failed to toggle comment like"}`, http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.Error(w, `{"error":"post not found"}`, http.StatusNotFound)
		return
	}
	comment := post.FindComment(commentID)
	if comment == nil {
		http.Error(w, `{"error":"comment not found"}`, http.StatusNotFound)
		return
	}

	comment.Likes, _ = models.ToggleID(comment.Likes, userID)
	if err := h.DB.SetCommentLikes(r.Context(), postID, commentID, comment.Likes); err != nil {
		http.Error(w, `{"error":"failed to toggle comment like"}`, http.StatusInternalServerError)
		return
	}
	h.populateOne(w, r, post)
}
