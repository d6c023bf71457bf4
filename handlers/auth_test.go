package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alanraiden/novelweb/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIssueTokenRoundTrip(t *testing.T) {
	secret := "unit-test-secret"
	userID := primitive.NewObjectID().Hex()

	signed, err := IssueToken(secret, userID)
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(signed, &middleware.Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(*middleware.Claims)
	require.True(t, ok)
	require.Equal(t, userID, claims.UserID)

	remaining := time.Until(claims.ExpiresAt.Time)
	require.Greater(t, remaining, 23*time.Hour)
	require.LessOrEqual(t, remaining, 24*time.Hour)
}

func TestIssueTokenWrongSecretRejected(t *testing.T) {
	signed, err := IssueToken("secret-a", primitive.NewObjectID().Hex())
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &middleware.Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	require.Error(t, err)
}

func TestSignupRejectsInvalidJSON(t *testing.T) {
	h := &AuthHandler{JWTSecret: "s"}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Signup(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupRejectsMissingFields(t *testing.T) {
	h := &AuthHandler{JWTSecret: "s"}
	for _, body := range []string{
		`{}`,
		`{"name":"Ann"}`,
		`{"name":"Ann","email":"ann@x.com"}`,
		`{"email":"ann@x.com","password":"p1"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.Signup(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestLoginRejectsMissingFields(t *testing.T) {
	h := &AuthHandler{JWTSecret: "s"}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ann@x.com"}`))
	w := httptest.NewRecorder()
	h.Login(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	h := &AuthHandler{JWTSecret: "s"}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	h.Logout(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "token", cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.True(t, cookies[0].Expires.Before(time.Now()))
}
