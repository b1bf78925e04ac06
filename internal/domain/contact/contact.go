package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is one submission of the public contact form. The collection is
// append-only; the admin can only flip the read flag.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	Save(ctx context.Context, m *Message) error
	List(ctx context.Context, onlyUnread bool, page, limit int) ([]*Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}
