package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eventtrail/eventtrail-go/internal/middleware"
	"github.com/eventtrail/eventtrail-go/internal/model"
	"github.com/eventtrail/eventtrail-go/internal/repository"
	"github.com/eventtrail/eventtrail-go/internal/service"
)

const testSecret = "test-secret"

// In-memory stores backing the full handler/service/middleware stack.

type memUserStore struct {
	nextID int64
	users  map[int64]model.User
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicateUser
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := u
	copied.PasswordHash = ""
	return &copied, nil
}

type memEventStore struct {
	nextID int64
	events map[int64]model.Event
}

func (s *memEventStore) Create(_ context.Context, event *model.Event) error {
	s.nextID++
	event.ID = s.nextID
	now := time.Now().UTC().Truncate(time.Second)
	event.CreatedAt = now
	event.UpdatedAt = now
	s.events[event.ID] = *event
	return nil
}

func (s *memEventStore) GetByID(_ context.Context, eventID, userID int64) (*model.Event, error) {
	e, ok := s.events[eventID]
	if !ok || e.UserID != userID {
		return nil, repository.ErrEventNotFound
	}
	copied := e
	return &copied, nil
}

func (s *memEventStore) ListByUser(_ context.Context, userID int64, from, to *time.Time) ([]model.Event, error) {
	var result []model.Event
	for _, e := range s.events {
		if e.UserID != userID {
			continue
		}
		if from != nil && e.StartDate.Before(*from) {
			continue
		}
		if to != nil && e.StartDate.After(*to) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.Before(result[j].StartDate)
	})
	return result, nil
}

func (s *memEventStore) Update(_ context.Context, eventID, userID int64, event *model.Event) (int64, error) {
	existing, ok := s.events[eventID]
	if !ok || existing.UserID != userID {
		return 0, nil
	}
	existing.Title = event.Title
	existing.Description = event.Description
	existing.StartDate = event.StartDate
	existing.EndDate = event.EndDate
	existing.Location = event.Location
	existing.AllDay = event.AllDay
	existing.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	s.events[eventID] = existing
	return 1, nil
}

func (s *memEventStore) Delete(_ context.Context, eventID, userID int64) (int64, error) {
	e, ok := s.events[eventID]
	if !ok || e.UserID != userID {
		return 0, nil
	}
	delete(s.events, eventID)
	return 1, nil
}

// newTestRouter wires the real services and middleware over in-memory
// stores, mirroring the route layout in cmd/api.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	userStore := &memUserStore{users: make(map[int64]model.User)}
	eventStore := &memEventStore{events: make(map[int64]model.Event)}

	authHandler := NewAuthHandler(service.NewAuthService(userStore, testSecret, time.Hour))
	eventHandler := NewEventHandler(service.NewEventService(eventStore))

	r := chi.NewRouter()
	r.Post("/api/auth/register", authHandler.HandleRegister)
	r.Post("/api/auth/login", authHandler.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(testSecret, userStore))
		r.Get("/api/auth/me", authHandler.HandleMe)

		r.Get("/api/events", eventHandler.HandleList)
		r.Post("/api/events", eventHandler.HandleCreate)
		r.Get("/api/events/{id}", eventHandler.HandleGet)
		r.Put("/api/events/{id}", eventHandler.HandleUpdate)
		r.Delete("/api/events/{id}", eventHandler.HandleDelete)
	})

	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return body
}

// registerUser registers a user through the API and returns the token.
func registerUser(t *testing.T, router http.Handler, username, email, password string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}

	token, _ := decodeResponse(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("register response missing token")
	}
	return token
}
