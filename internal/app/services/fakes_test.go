package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/pkg/apperrors"
	"github.com/aarjjun/EventSync/internal/pkg/websocket"
	"github.com/google/uuid"
)

type fakeEvents struct {
	mu        sync.Mutex
	rows      map[string]*models.Event
	inserted  []models.Event
	updates   int
	filters   []models.EventFilter
	insertErr error
	updateErr error
}

func newFakeEvents(seed ...models.Event) *fakeEvents {
	f := &fakeEvents{rows: map[string]*models.Event{}}
	for i := range seed {
		e := seed[i]
		f.rows[e.ID] = &e
	}
	return f
}

func (f *fakeEvents) Insert(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	stored := *e
	f.rows[e.ID] = &stored
	f.inserted = append(f.inserted, stored)
	return nil
}

func (f *fakeEvents) UpdateStatus(_ context.Context, id string, status models.EventStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	e, ok := f.rows[id]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	out := *e
	return &out, nil
}

func (f *fakeEvents) List(_ context.Context, filter models.EventFilter) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	out := make([]models.Event, 0, len(f.rows))
	for _, e := range f.rows {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.From != nil && e.Datetime.Before(*filter.From) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	getErr  error
	created []models.User
}

func newFakeUsers(seed ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.User{}}
	for i := range seed {
		u := seed[i]
		f.byID[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	stored := *u
	f.byID[u.ID] = &stored
	f.created = append(f.created, stored)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeStorage struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (f *fakeStorage) Upload(_ context.Context, path string, r io.Reader) error {
	if f.err != nil {
		return f.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return err
	}
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	return nil
}

func (f *fakeStorage) PublicURL(path string) string {
	return "http://localhost:8080/uploads/event-posters/" + path
}

type sent struct {
	userID       string
	notification websocket.Notification
}

type fakeNotifier struct {
	mu         sync.Mutex
	direct     []sent
	broadcasts []websocket.Notification
}

func (f *fakeNotifier) SendToUser(userID string, n websocket.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct = append(f.direct, sent{userID: userID, notification: n})
}

func (f *fakeNotifier) Broadcast(n websocket.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, n)
}

type mail struct {
	to, name, title, status string
}

type fakeMailer struct {
	sent chan mail
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan mail, 4)}
}

func (f *fakeMailer) SendStatusChangeEmail(toEmail, toName, eventTitle, status string) error {
	f.sent <- mail{to: toEmail, name: toName, title: eventTitle, status: status}
	return f.err
}

type fakeTokens struct {
	err error
}

func (f fakeTokens) GenerateAccessToken(user *models.User) (string, int, error) {
	if f.err != nil {
		return "", 0, f.err
	}
	return "token-for-" + user.ID, 3600, nil
}

var errBoom = errors.New("boom")
