package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// Queries shorter than 3 characters are rejected before any lookup runs.
// The limit counts characters, not bytes, so a two-character multibyte
// query is still too short.
func TestSearchRejectsShortQuery(t *testing.T) {
	h := &NovelsHandler{}
	for _, q := range []string{"", "a", "ab", "世", "世界"} {
		req := httptest.NewRequest(http.MethodGet, "/api/novels/search?query="+url.QueryEscape(q), nil)
		w := httptest.NewRecorder()
		h.Search(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, "query %q", q)
	}
}

func TestToggleLikeRequiresAuth(t *testing.T) {
	h := &NovelsHandler{}
	req := httptest.NewRequest(http.MethodPost, "/api/novels/abc/toggle-like", nil)
	w := httptest.NewRecorder()
	h.ToggleLike(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRequiresAuth(t *testing.T) {
	h := &NovelsHandler{}
	req := httptest.NewRequest(http.MethodPost, "/api/novels", nil)
	w := httptest.NewRecorder()
	h.Create(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
