package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventtrail/eventtrail-go/internal/crypto"
	"github.com/eventtrail/eventtrail-go/internal/model"
	"github.com/eventtrail/eventtrail-go/internal/repository"
)

const testSecret = "test-secret"

type fakeUserFinder struct {
	users map[int64]*model.User
}

func (f *fakeUserFinder) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func authTestHandler(t *testing.T, gotUser *AuthUser) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("handler reached without identity in context")
		}
		*gotUser = user
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	users := &fakeUserFinder{users: map[int64]*model.User{}}
	var got AuthUser
	handler := JWTAuth(testSecret, users)(authTestHandler(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestJWTAuth_WrongScheme(t *testing.T) {
	users := &fakeUserFinder{users: map[int64]*model.User{}}
	var got AuthUser
	handler := JWTAuth(testSecret, users)(authTestHandler(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	users := &fakeUserFinder{users: map[int64]*model.User{}}
	var got AuthUser
	handler := JWTAuth(testSecret, users)(authTestHandler(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	users := &fakeUserFinder{users: map[int64]*model.User{}}
	var got AuthUser
	handler := JWTAuth(testSecret, users)(authTestHandler(t, &got))

	token, err := crypto.GenerateToken(1, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestJWTAuth_UserNoLongerExists(t *testing.T) {
	users := &fakeUserFinder{users: map[int64]*model.User{}}
	var got AuthUser
	handler := JWTAuth(testSecret, users)(authTestHandler(t, &got))

	token, err := crypto.GenerateToken(42, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestJWTAuth_ValidTokenAttachesIdentity(t *testing.T) {
	users := &fakeUserFinder{users: map[int64]*model.User{
		42: {ID: 42, Username: "alice", Email: "a@x.com"},
	}}
	var got AuthUser
	handler := JWTAuth(testSecret, users)(authTestHandler(t, &got))

	token, err := crypto.GenerateToken(42, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got.ID != 42 || got.Username != "alice" || got.Email != "a@x.com" {
		t.Errorf("context identity = %+v, want alice", got)
	}
}
