package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// The stored credential for a Google-backed account must be a bcrypt hash
// of the derived value, never the raw concatenation carrying the signing
// secret.
func TestGooglePasswordIsHashed(t *testing.T) {
	sub := "108437561278295036442"
	secret := "signing-secret"

	stored, err := googlePassword(sub, secret)
	require.NoError(t, err)

	require.NotContains(t, stored, secret)
	require.NotContains(t, stored, sub)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte(sub+secret)))
	require.Error(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte(sub)))
}

func TestGoogleLoginRejectsInvalidJSON(t *testing.T) {
	h := &OAuthHandler{JWTSecret: "s"}
	req := httptest.NewRequest(http.MethodPost, "/api/oauth/google-login", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.GoogleLogin(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleLoginRejectsMissingToken(t *testing.T) {
	h := &OAuthHandler{JWTSecret: "s"}
	req := httptest.NewRequest(http.MethodPost, "/api/oauth/google-login", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.GoogleLogin(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
