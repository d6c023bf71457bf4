package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRoleSource struct {
	roles map[primitive.ObjectID]string
	err   error
}

func (f *fakeRoleSource) UserRole(ctx context.Context, id primitive.ObjectID) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.roles[id], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(userID primitive.ObjectID) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	return req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
}

func TestRequireRoleMatch(t *testing.T) {
	userID := primitive.NewObjectID()
	src := &fakeRoleSource{roles: map[primitive.ObjectID]string{userID: "author"}}
	h := RequireRole(src, "author")(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, requestAs(userID))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleMismatch(t *testing.T) {
	userID := primitive.NewObjectID()
	src := &fakeRoleSource{roles: map[primitive.ObjectID]string{userID: "user"}}
	h := RequireRole(src, "author")(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, requestAs(userID))
	require.Equal(t, http.StatusForbidden, w.Code)
}

// The gate consults the credential store, not the token: promoting the
// user there is enough for the same identity to pass on the next request.
func TestRequireRoleReReadsStore(t *testing.T) {
	userID := primitive.NewObjectID()
	src := &fakeRoleSource{roles: map[primitive.ObjectID]string{userID: "user"}}
	h := RequireRole(src, "author")(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, requestAs(userID))
	require.Equal(t, http.StatusForbidden, w.Code)

	src.roles[userID] = "author"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, requestAs(userID))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleUnknownUser(t *testing.T) {
	src := &fakeRoleSource{roles: map[primitive.ObjectID]string{}}
	h := RequireRole(src, "author")(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, requestAs(primitive.NewObjectID()))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleNoIdentity(t *testing.T) {
	src := &fakeRoleSource{}
	h := RequireRole(src, "author")(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleLookupError(t *testing.T) {
	src := &fakeRoleSource{err: errors.New("connection reset")}
	h := RequireRole(src, "author")(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, requestAs(primitive.NewObjectID()))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
