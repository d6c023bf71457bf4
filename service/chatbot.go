package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultChatbotURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// ChatbotService proxies user messages to the external language-model API.
// The model backend itself is an external collaborator; only the HTTP call
// lives here.
type ChatbotService struct {
	APIKey  string
	BaseURL string // overrides the default endpoint when set
	client  *http.Client
}

func NewChatbotService(apiKey, baseURL string) *ChatbotService {
	return &ChatbotService{
		APIKey:  apiKey,
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type chatPart struct {
	Text string `json:"text"`
}

type chatContent struct {
	Parts []chatPart `json:"parts"`
}

type generateContentRequest struct {
	Contents []chatContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content chatContent `json:"content"`
	} `json:"candidates"`
}

// Ask sends message to the model and returns its reply text.
func (s *ChatbotService) Ask(ctx context.Context, message string) (string, error) {
	if s.APIKey == "" {
		return "", fmt.Errorf("chatbot API key not configured")
	}
	url := s.BaseURL
	if url == "" {
		url = defaultChatbotURL
	}

	reqBody := generateContentRequest{
		Contents: []chatContent{{Parts: []chatPart{{Text: message}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"?key="+s.APIKey, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chatbot request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chatbot backend returned %d", resp.StatusCode)
	}

	var out generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("chatbot decode: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("chatbot returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
