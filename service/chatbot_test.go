package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChatbotAsk(t *testing.T) {
	var gotMessage string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		var req generateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		gotMessage = req.Contents[0].Parts[0].Text

		resp := generateContentResponse{}
		resp.Candidates = []struct {
			Content chatContent `json:"content"`
		}{{Content: chatContent{Parts: []chatPart{{Text: "a fine novel indeed"}}}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer backend.Close()

	bot := NewChatbotService("test-key", backend.URL)
	reply, err := bot.Ask(context.Background(), "recommend me a novel")
	require.NoError(t, err)
	require.Equal(t, "a fine novel indeed", reply)
	require.Equal(t, "recommend me a novel", gotMessage)
}

func TestChatbotAskBackendError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer backend.Close()

	bot := NewChatbotService("test-key", backend.URL)
	_, err := bot.Ask(context.Background(), "hello")
	require.Error(t, err)
}

func TestChatbotAskEmptyCandidates(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer backend.Close()

	bot := NewChatbotService("test-key", backend.URL)
	_, err := bot.Ask(context.Background(), "hello")
	require.Error(t, err)
}

func TestChatbotAskNoKey(t *testing.T) {
	bot := NewChatbotService("", "")
	_, err := bot.Ask(context.Background(), "hello")
	require.Error(t, err)
}
