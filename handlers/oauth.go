package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/alanraiden/novelweb/models"
	"github.com/alanraiden/novelweb/service"
	"github.com/alanraiden/novelweb/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type OAuthHandler struct {
	DB        *store.DB
	JWTSecret string
}

type GoogleLoginRequest struct {
	Token string `json:"token"`
}

type GoogleLoginResponse struct {
	Msg    string       `json:"msg"`
	Token  string       `json:"token"`
	UserID string       `json:"userId"`
	User   *models.User `json:"user"`
}

// googlePassword derives the stored credential for a Google-backed account
// and bcrypt-hashes it, so the user document never carries the signing
// secret in recoverable form.
func googlePassword(sub, secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(sub+secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GoogleLogin exchanges a Google OAuth access token for a session token,
// creating or refreshing the local user record from the Google profile.
func (h *OAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, `{"error":"no token provided"}`, http.StatusBadRequest)
		return
	}

	info, err := service.FetchGoogleUserInfo(r.Context(), req.Token)
	if err != nil {
		log.Printf("google login: %v", err)
		http.Error(w, `{"error":"failed to verify google token"}`, http.StatusUnauthorized)
		return
	}

	// Google-backed accounts get a derived password so the record satisfies
	// the schema; it is never a usable login credential.
	derived, err := googlePassword(info.Sub, h.JWTSecret)
	if err != nil {
		http.Error(w, `{"error":"authentication failed"}`, http.StatusInternalServerError)
		return
	}

	user, err := h.DB.UserByEmail(r.Context(), info.Email)
	if err != nil {
		http.Error(w, `{"error":"authentication failed"}`, http.StatusInternalServerError)
		return
	}
	if user != nil {
		if err := h.DB.UpdateGoogleUser(r.Context(), user.ID, info.Name, info.Picture, derived); err != nil {
			http.Error(w, `{"error":"authentication failed"}`, http.StatusInternalServerError)
			return
		}
		user, err = h.DB.UserByID(r.Context(), user.ID)
		if err != nil || user == nil {
			http.Error(w, `{"error":"authentication failed"}`, http.StatusInternalServerError)
			return
		}
	} else {
		image := info.Picture
		if image == "" {
			image = models.DefaultUserImage
		}
		now := time.Now()
		user = &models.User{
			Name:        info.Name,
			Email:       info.Email,
			Password:    derived,
			Role:        models.RoleUser,
			UserImage:   image,
			Posts:       []primitive.ObjectID{},
			Reviews:     []primitive.ObjectID{},
			LikedNovels: []primitive.ObjectID{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		id, err := h.DB.CreateUser(r.Context(), user)
		if err != nil {
			http.Error(w, `{"error":"authentication failed"}`, http.StatusInternalServerError)
			return
		}
		user.ID = id
	}

	token, err := IssueToken(h.JWTSecret, user.ID.Hex())
	if err != nil {
		http.Error(w, `{"error":"could not create token"}`, http.StatusInternalServerError)
		return
	}
	setTokenCookie(w, token)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GoogleLoginResponse{
		Msg:    "google authentication successful",
		Token:  token,
		UserID: user.ID.Hex(),
		User:   user,
	})
}
