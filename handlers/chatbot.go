package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/alanraiden/novelweb/service"
)

type ChatbotHandler struct {
	Bot *service.ChatbotService
}

type ChatbotRequest struct {
	Message string `json:"message"`
}

type ChatbotResponse struct {
	Response string `json:"response"`
}

// Query forwards the user's message to the language-model backend.
func (h *ChatbotHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req ChatbotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
		return
	}
	reply, err := h.Bot.Ask(r.Context(), req.Message)
	if err != nil {
		log.Printf("chatbot: %v", err)
		http.Error(w, `{"error":"something went wrong with the chatbot service"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatbotResponse{Response: reply})
}
