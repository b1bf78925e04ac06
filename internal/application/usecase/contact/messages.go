package contact

import (
	"context"

	"github.com/google/uuid"

	"github.com/quangtran/folio-api/internal/domain/contact"
)

type ListMessagesUseCase struct {
	contactRepo contact.Repository
}

func NewListMessagesUseCase(repo contact.Repository) *ListMessagesUseCase {
	return &ListMessagesUseCase{contactRepo: repo}
}

type ListMessagesInput struct {
	OnlyUnread bool
	Page       int
	Limit      int
}

type ListMessagesOutput struct {
	Messages []*contact.Message
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, input ListMessagesInput) (*ListMessagesOutput, error) {
	messages, err := uc.contactRepo.List(ctx, input.OnlyUnread, input.Page, input.Limit)
	if err != nil {
		return nil, err
	}
	return &ListMessagesOutput{Messages: messages}, nil
}

type MarkReadUseCase struct {
	contactRepo contact.Repository
}

func NewMarkReadUseCase(repo contact.Repository) *MarkReadUseCase {
	return &MarkReadUseCase{contactRepo: repo}
}

type MarkReadInput struct {
	MessageID uuid.UUID
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, input MarkReadInput) error {
	return uc.contactRepo.MarkRead(ctx, input.MessageID)
}
