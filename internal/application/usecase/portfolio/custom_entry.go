package portfolio

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/quangtran/folio-api/internal/domain/portfolio"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/logger"
)

type AddEntryUseCase struct {
	portfolioRepo portfolio.Repository
	cache         DocumentCache
	publisher     EventPublisher
	logger        logger.Logger
}

func NewAddEntryUseCase(repo portfolio.Repository, cache DocumentCache, publisher EventPublisher, log logger.Logger) *AddEntryUseCase {
	return &AddEntryUseCase{
		portfolioRepo: repo,
		cache:         cache,
		publisher:     publisher,
		logger:        log,
	}
}

type AddEntryInput struct {
	OwnerID   uuid.UUID
	SectionID string
	// Payload keys are not checked against the section's field definitions;
	// unknown keys are stored as-is.
	Payload map[string]any
}

type AddEntryOutput struct {
	Entry json.RawMessage
	ID    string
}

func (uc *AddEntryUseCase) Execute(ctx context.Context, input AddEntryInput) (*AddEntryOutput, error) {
	id := portfolio.NewID()
	raw, err := entryJSON(id, input.Payload)
	if err != nil {
		return nil, err
	}

	if err := uc.portfolioRepo.AppendEntry(ctx, input.OwnerID, input.SectionID, raw); err != nil {
		return nil, err
	}

	afterMutation(ctx, uc.cache, uc.publisher, uc.logger, "item.added", customSectionsName, id)
	return &AddEntryOutput{Entry: raw, ID: id}, nil
}

type UpdateEntryUseCase struct {
	portfolioRepo portfolio.Repository
	cache         DocumentCache
	publisher     EventPublisher
	logger        logger.Logger
}

func NewUpdateEntryUseCase(repo portfolio.Repository, cache DocumentCache, publisher EventPublisher, log logger.Logger) *UpdateEntryUseCase {
	return &UpdateEntryUseCase{
		portfolioRepo: repo,
		cache:         cache,
		publisher:     publisher,
		logger:        log,
	}
}

type UpdateEntryInput struct {
	OwnerID   uuid.UUID
	SectionID string
	EntryID   string
	Payload   map[string]any
}

type UpdateEntryOutput struct {
	Entry json.RawMessage
}

func (uc *UpdateEntryUseCase) Execute(ctx context.Context, input UpdateEntryInput) (*UpdateEntryOutput, error) {
	patch, err := stripID(input.Payload)
	if err != nil {
		return nil, err
	}
	if err := checkEntryValues(patch); err != nil {
		return nil, err
	}

	entry, err := uc.portfolioRepo.MergeEntry(ctx, input.OwnerID, input.SectionID, input.EntryID, patch)
	if err != nil {
		return nil, err
	}

	afterMutation(ctx, uc.cache, uc.publisher, uc.logger, "item.updated", customSectionsName, input.EntryID)
	return &UpdateEntryOutput{Entry: entry}, nil
}

type DeleteEntryUseCase struct {
	portfolioRepo portfolio.Repository
	cache         DocumentCache
	publisher     EventPublisher
	logger        logger.Logger
}

func NewDeleteEntryUseCase(repo portfolio.Repository, cache DocumentCache, publisher EventPublisher, log logger.Logger) *DeleteEntryUseCase {
	return &DeleteEntryUseCase{
		portfolioRepo: repo,
		cache:         cache,
		publisher:     publisher,
		logger:        log,
	}
}

type DeleteEntryInput struct {
	OwnerID   uuid.UUID
	SectionID string
	EntryID   string
}

func (uc *DeleteEntryUseCase) Execute(ctx context.Context, input DeleteEntryInput) error {
	if err := uc.portfolioRepo.RemoveEntry(ctx, input.OwnerID, input.SectionID, input.EntryID); err != nil {
		return err
	}

	afterMutation(ctx, uc.cache, uc.publisher, uc.logger, "item.deleted", customSectionsName, input.EntryID)
	return nil
}

// entryJSON builds the stored entry: payload values plus a fresh "_id",
// whatever identifier the client may have sent.
func entryJSON(id string, payload map[string]any) (json.RawMessage, error) {
	flat := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		if k == "_id" {
			continue
		}
		flat[k] = v
	}
	flat["_id"] = id

	raw, err := json.Marshal(flat)
	if err != nil {
		return nil, apperror.NewInvalidInput("entry payload is not serializable", err)
	}
	if err := checkEntryValues(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// checkEntryValues rejects values outside the closed set an Entry can hold
// (strings and numbers on the wire). A stored bool or object would poison
// every later read of the customSections column.
func checkEntryValues(raw json.RawMessage) error {
	var e portfolio.Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return apperror.NewInvalidInput("entry values must be strings or numbers", err)
	}
	return nil
}
