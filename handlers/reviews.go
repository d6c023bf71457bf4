package handlers

import (
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

type ReviewsHandler struct {
	DB *store.DB
}

type AddReviewRequest struct {
	ReviewTitle   string `json:"reviewTitle"`
	ReviewContent string `json:"reviewContent"`
}

type AddReplyRequest struct {
	Content string `json:"content"`
}

// Add creates a review and appends its id to both the novel's and the
// reviewing user's review lists.
func (h *ReviewsHandler) Add(w http.ResponseWriter, r *http.Request) {
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
	var req AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	req.ReviewTitle = strings.TrimSpace(req.ReviewTitle)
	if req.ReviewTitle == "" || req.ReviewContent == "" {
		http.Error(w, `{"error":"review title and content are required"}`, http.StatusBadRequest)
		return
	}

	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"failed to add review"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	novel, err := h.DB.NovelByID(r.Context(), novelID)
	if err != nil {
		http.Error(w, `{"error":"failed to add review"}`, http.StatusInternalServerError)
		return
	}
	if novel == nil {
		http.Error(w, `{"error":"novel not found"}`, http.StatusNotFound)
		return
	}

	now := time.Now()
	review := &models.Review{
		UserID:    userID,
		NovelID:   novelID,
		Title:     req.ReviewTitle,
		Content:   req.ReviewContent,
		Likes:     []primitive.ObjectID{},
		Replies:   []models.Reply{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := h.DB.CreateReview(r.Context(), review)
	if err != nil {
		http.Error(w, `{"error":"failed to add review"}`, http.StatusInternalServerError)
		return
	}
	review.ID = id
	if err := h.DB.AppendNovelReview(r.Context(), novelID, id); err != nil {
		http.Error(w, `{"error":"failed to add review"}`, http.StatusInternalServerError)
		return
	}
	if err := h.DB.AppendUserReview(r.Context(), userID, id); err != nil {
		http.Error(w, `{"error":"failed to add review"}`, http.StatusInternalServerError)
		return
	}

	out, err := populateReview(r.Context(), h.DB, review)
	if err != nil {
		http.Error(w, `{"error":"failed to add review"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(out)
}

// ListByNovel returns a novel's reviews, newest first.
func (h *ReviewsHandler) ListByNovel(w http.ResponseWriter, r *http.Request) {
	novelID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "novelId"))
	if err != nil {
		http.Error(w, `{"error":"invalid novel id"}`, http.StatusBadRequest)
		return
	}
	reviews, err := h.DB.ReviewsByNovel(r.Context(), novelID)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch reviews"}`, http.StatusInternalServerError)
		return
	}
	out, err := populateReviews(r.Context(), h.DB, reviews)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch reviews"}`, http.StatusInternalServerError)
		return
	}
	if out == nil {
		out = []ReviewResponse{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (h *ReviewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	reviewID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewId"))
	if err != nil {
		http.Error(w, `{"error":"invalid review id"}`, http.StatusBadRequest)
		return
	}
	review, err := h.DB.ReviewByID(r.Context(), reviewID)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch review"}`, http.StatusInternalServerError)
		return
	}
	if review == nil {
		http.Error(w, `{"error":"review not found"}`, http.StatusNotFound)
		return
	}
	out, err := populateReview(r.Context(), h.DB, review)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch review"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// AddReply appends an embedded reply to a review.
func (h *ReviewsHandler) AddReply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	reviewID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewId"))
	if err != nil {
		http.Error(w, `{"error":"invalid review id"}`, http.StatusBadRequest)
		return
	}
	var req AddReplyRequest
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
		http.Error(w, `{"error":"failed to add reply"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	review, err := h.DB.ReviewByID(r.Context(), reviewID)
	if err != nil {
		http.Error(w, `{"error":"failed to add reply"}`, http.StatusInternalServerError)
		return
	}
	if review == nil {
		http.Error(w, `{"error":"review not found"}`, http.StatusNotFound)
		return
	}

	reply := models.Reply{
		ID:        primitive.NewObjectID(),
		Content:   req.Content,
		UserID:    userID,
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}
	if err := h.DB.AppendReply(r.Context(), reviewID, reply); err != nil {
		http.Error(w, `{"error":"failed to add reply"}`, http.StatusInternalServerError)
		return
	}
	review.Replies = append(review.Replies, reply)

	out, err := populateReview(r.Context(), h.DB, review)
	if err != nil {
		http.Error(w, `{"error":"failed to add reply"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// ToggleLike flips the caller's membership in the review's like-set.
func (h *ReviewsHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	reviewID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewId"))
	if err != nil {
		http.Error(w, `{"error":"invalid review id"}`, http.StatusBadRequest)
		return
	}
	review, err := h.DB.ReviewByID(r.Context(), reviewID)
	if err != nil {
		http.Error(w, `{"error":"failed to toggle review like"}`, http.StatusInternalServerError)
		return
	}
	if review == nil {
		http.Error(w, `{"error":"review not found"}`, http.StatusNotFound)
		return
	}

	review.Likes, _ = models.ToggleID(review.Likes, userID)
	if err := h.DB.SetReviewLikes(r.Context(), reviewID, review.Likes); err != nil {
		http.Error(w, `{"error":"failed to toggle review like"}`, http.StatusInternalServerError)
		return
	}

	out, err := populateReview(r.Context(), h.DB, review)
	if err != nil {
		http.Error(w, `{"error":"failed to toggle review like"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// ToggleReplyLike flips the caller's membership in an embedded reply's
// like-set and returns the parent review.
func (h *ReviewsHandler) ToggleReplyLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	reviewID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewId"))
	if err != nil {
		http.Error(w, `{"error":"invalid review id"}`, http.StatusBadRequest)
		return
	}
	replyID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "replyId"))
	if err != nil {
		http.Error(w, `{"error":"invalid reply id"}`, http.StatusBadRequest)
		return
	}

	review, err := h.DB.ReviewByID(r.Context(), reviewID)
	if err != nil {
		http.Error(w, `{"error":"failed to toggle reply like"}`, http.StatusInternalServerError)
		return
	}
	if review == nil {
		http.Error(w, `{"error":"review not found"}`, http.StatusNotFound)
		return
	}
	reply := review.FindReply(replyID)
	if reply == nil {
		http.Error(w, `{"error":"reply not found"}`, http.StatusNotFound)
		return
	}

	reply.Likes, _ = models.ToggleID(reply.Likes, userID)
	if err := h.DB.SetReplyLikes(r.Context(), reviewID, replyID, reply.Likes); err != nil {
		http.Error(w, `{"error":"failed to toggle reply like"}`, http.StatusInternalServerError)
		return
	}

	out, err := populateReview(r.Context(), h.DB, review)
	if err != nil {
		http.Error(w, `{"error":"failed to toggle reply like"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Delete removes a review (only its author may) and clears the novel's
// back-reference.
func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	reviewID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "reviewId"))
	if err != nil {
		http.Error(w, `{"error":"invalid review id"}`, http.StatusBadRequest)
		return
	}
	review, err := h.DB.ReviewByID(r.Context(), reviewID)
	if err != nil {
		http.Error(w, `{"error":"failed to delete review"}`, http.StatusInternalServerError)
		return
	}
	if review == nil {
		http.Error(w, `{"error":"review not found"}`, http.StatusNotFound)
		return
	}
	if review.UserID != userID {
		http.Error(w, `{"error":"forbidden: not your review"}`, http.StatusForbidden)
		return
	}

	if err := h.DB.RemoveNovelReview(r.Context(), review.NovelID, reviewID); err != nil {
		http.Error(w, `{"error":"failed to delete review"}`, http.StatusInternalServerError)
		return
	}
	if err := h.DB.DeleteReview(r.Context(), reviewID); err != nil {
		http.Error(w, `{"error":"failed to delete review"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"msg": "review deleted successfully"})
}
