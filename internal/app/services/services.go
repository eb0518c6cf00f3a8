// Package services holds the business logic behind the HTTP controllers.
//
// Services defined in this package:
//   - AuthService: registration, login and the current profile
//   - EventService: submission, review and listing of events
//   - ReportService: PDF and Excel exports of the event list
package services

import (
	"context"
	"io"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/pkg/websocket"
)

// EventStore is the persistence the event workflows need
type EventStore interface {
	Insert(ctx context.Context, e *models.Event) error
	UpdateStatus(ctx context.Context, id string, status models.EventStatus) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
}

// UserStore is the persistence the identity workflows need
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Notifier delivers toasts and refresh signals to connected clients
type Notifier interface {
	SendToUser(userID string, n websocket.Notification)
	Broadcast(n websocket.Notification)
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateAccessToken(user *models.User) (token string, expiresIn int, err error)
}

// Poster is an uploaded image attached to a submission
type Poster struct {
	Filename string
	Body     io.Reader
}
