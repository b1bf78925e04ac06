package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quangtran/folio-api/adapters/event"
	"github.com/quangtran/folio-api/internal/domain/contact"
	"github.com/quangtran/folio-api/pkg/logger"
)

// EventPublisher hands the submission to the notification worker. The
// message is already persisted by then; a publish failure only delays the
// notification, it never loses the message.
type EventPublisher interface {
	PublishContactEvent(ctx context.Context, payload event.ContactEventPayload) error
}

type SubmitUseCase struct {
	contactRepo contact.Repository
	publisher   EventPublisher
	logger      logger.Logger
}

func NewSubmitUseCase(repo contact.Repository, publisher EventPublisher, log logger.Logger) *SubmitUseCase {
	return &SubmitUseCase{contactRepo: repo, publisher: publisher, logger: log}
}

type SubmitInput struct {
	Name    string
	Email   string
	Message string
}

type SubmitOutput struct {
	MessageID uuid.UUID
}

func (uc *SubmitUseCase) Execute(ctx context.Context, input SubmitInput) (*SubmitOutput, error) {
	m := &contact.Message{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		Message:   input.Message,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.contactRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	payload := event.ContactEventPayload{
		MessageID: m.ID.String(),
		Name:      m.Name,
		Email:     m.Email,
		Message:   m.Message,
		At:        m.CreatedAt,
	}
	if err := uc.publisher.PublishContactEvent(ctx, payload); err != nil {
		uc.logger.Warn("Failed to publish contact event", zap.String("message_id", m.ID.String()), zap.Error(err))
	}

	return &SubmitOutput{MessageID: m.ID}, nil
}
