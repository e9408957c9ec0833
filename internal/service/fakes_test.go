package service

import (
	"context"
	"sort"
	"time"

	"github.com/eventtrail/eventtrail-go/internal/model"
	"github.com/eventtrail/eventtrail-go/internal/repository"
)

// In-memory stores mirroring the repository semantics, including the
// repository sentinel errors and owner scoping.

type fakeUserStore struct {
	nextID int64
	users  map[int64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicateUser
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now().UTC()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := u
	copied.PasswordHash = "" // the real query never selects the hash
	return &copied, nil
}

type fakeEventStore struct {
	nextID  int64
	events  map[int64]model.Event
	creates int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[int64]model.Event)}
}

func (f *fakeEventStore) Create(_ context.Context, event *model.Event) error {
	f.creates++
	f.nextID++
	event.ID = f.nextID
	now := time.Now().UTC().Truncate(time.Second)
	event.CreatedAt = now
	event.UpdatedAt = now
	f.events[event.ID] = *event
	return nil
}

func (f *fakeEventStore) GetByID(_ context.Context, eventID, userID int64) (*model.Event, error) {
	e, ok := f.events[eventID]
	if !ok || e.UserID != userID {
		return nil, repository.ErrEventNotFound
	}
	copied := e
	return &copied, nil
}

func (f *fakeEventStore) ListByUser(_ context.Context, userID int64, from, to *time.Time) ([]model.Event, error) {
	var result []model.Event
	for _, e := range f.events {
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

func (f *fakeEventStore) Update(_ context.Context, eventID, userID int64, event *model.Event) (int64, error) {
	existing, ok := f.events[eventID]
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
	f.events[eventID] = existing
	return 1, nil
}

func (f *fakeEventStore) Delete(_ context.Context, eventID, userID int64) (int64, error) {
	e, ok := f.events[eventID]
	if !ok || e.UserID != userID {
		return 0, nil
	}
	delete(f.events, eventID)
	return 1, nil
}
