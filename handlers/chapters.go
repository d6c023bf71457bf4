package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/alanraiden/novelweb/models"
	"github.com/alanraiden/novelweb/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChaptersHandler struct {
	DB *store.DB
}

type UploadChapterRequest struct {
	ChapterName    string `json:"chapterName"`
	ChapterContent string `json:"chapterContent"`
}

// Upload appends a chapter to a novel. The number is the novel's current
// chapter count plus one; the unique (novel, number) index turns a
// concurrent upload racing on the same number into a conflict instead of a
// silent duplicate.
func (h *ChaptersHandler) Upload(w http.ResponseWriter, r *http.Request) {
	novelID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "novelId"))
	if err != nil {
		http.Error(w, `{"error":"invalid novel id"}`, http.StatusBadRequest)
		return
	}
	var req UploadChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	req.ChapterName = strings.TrimSpace(req.ChapterName)
	if req.ChapterName == "" || req.ChapterContent == "" {
		http.Error(w, `{"error":"chapter name and content are required"}`, http.StatusBadRequest)
		return
	}

	novel, err := h.DB.NovelByID(r.Context(), novelID)
	if err != nil {
		http.Error(w, `{"error":"failed to upload chapter"}`, http.StatusInternalServerError)
		return
	}
	if novel == nil {
		http.Error(w, `{"error":"novel not found"}`, http.StatusNotFound)
		return
	}

	now := time.Now()
	chapter := &models.Chapter{
		NovelID:       novelID,
		ChapterNumber: len(novel.Chapters) + 1,
		ChapterName:   req.ChapterName,
		Content:       req.ChapterContent,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	id, err := h.DB.CreateChapter(r.Context(), chapter)
	if err != nil {
		if store.IsDuplicateKey(err) {
			http.Error(w, `{"error":"chapter number conflict, retry upload"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"failed to upload chapter"}`, http.StatusInternalServerError)
		return
	}
	chapter.ID = id
	if err := h.DB.AppendNovelChapter(r.Context(), novelID, id); err != nil {
		http.Error(w, `{"error":"failed to upload chapter"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(chapter)
}

// List returns a novel's chapters sorted by number.
func (h *ChaptersHandler) List(w http.ResponseWriter, r *http.Request) {
	novelID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "novelId"))
	if err != nil {
		http.Error(w, `{"error":"invalid novel id"}`, http.StatusBadRequest)
		return
	}
	chapters, err := h.DB.ChaptersByNovel(r.Context(), novelID)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch chapters"}`, http.StatusInternalServerError)
		return
	}
	if chapters == nil {
		chapters = []models.Chapter{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chapters)
}

func (h *ChaptersHandler) Get(w http.ResponseWriter, r *http.Request) {
	novelID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "novelId"))
	if err != nil {
		http.Error(w, `{"error":"invalid novel id"}`, http.StatusBadRequest)
		return
	}
	chapterID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "chapterId"))
	if err != nil {
		http.Error(w, `{"error":"invalid chapter id"}`, http.StatusBadRequest)
		return
	}
	chapter, err := h.DB.ChapterByID(r.Context(), novelID, chapterID)
	if err != nil {
		http.Error(w, `{"error":"failed to fetch chapter"}`, http.StatusInternalServerError)
		return
	}
	if chapter == nil {
		http.Error(w, `{"error":"chapter not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chapter)
}
