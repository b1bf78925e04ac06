package portfolio

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/quangtran/folio-api/internal/domain/portfolio"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/logger"
)

const customSectionsName = "customSections"

type AddCustomSectionUseCase struct {
	portfolioRepo portfolio.Repository
	cache         DocumentCache
	publisher     EventPublisher
	logger        logger.Logger
}

func NewAddCustomSectionUseCase(repo portfolio.Repository, cache DocumentCache, publisher EventPublisher, log logger.Logger) *AddCustomSectionUseCase {
	return &AddCustomSectionUseCase{
		portfolioRepo: repo,
		cache:         cache,
		publisher:     publisher,
		logger:        log,
	}
}

type AddCustomSectionInput struct {
	OwnerID uuid.UUID
	Name    string
	// Fields are stored as given; duplicate field names are the form
	// builder's problem, not the store's.
	Fields []portfolio.FieldDefinition
}

type AddCustomSectionOutput struct {
	Section json.RawMessage
	ID      string
}

func (uc *AddCustomSectionUseCase) Execute(ctx context.Context, input AddCustomSectionInput) (*AddCustomSectionOutput, error) {
	fields := input.Fields
	if fields == nil {
		fields = []portfolio.FieldDefinition{}
	}
	section := portfolio.CustomSection{
		ID:      portfolio.NewID(),
		Name:    input.Name,
		Fields:  fields,
		Entries: []portfolio.Entry{},
	}

	raw, err := json.Marshal(section)
	if err != nil {
		return nil, apperror.NewInvalidInput("custom section is not serializable", err)
	}

	if err := uc.portfolioRepo.AppendCustomSection(ctx, input.OwnerID, raw); err != nil {
		return nil, err
	}

	afterMutation(ctx, uc.cache, uc.publisher, uc.logger, "item.added", customSectionsName, section.ID)
	return &AddCustomSectionOutput{Section: raw, ID: section.ID}, nil
}

// DeleteCustomSectionUseCase removes a section and cascades to every entry
// inside it; entries have no independent lifecycle.
type DeleteCustomSectionUseCase struct {
	portfolioRepo portfolio.Repository
	cache         DocumentCache
	publisher     EventPublisher
	logger        logger.Logger
}

func NewDeleteCustomSectionUseCase(repo portfolio.Repository, cache DocumentCache, publisher EventPublisher, log logger.Logger) *DeleteCustomSectionUseCase {
	return &DeleteCustomSectionUseCase{
		portfolioRepo: repo,
		cache:         cache,
		publisher:     publisher,
		logger:        log,
	}
}

type DeleteCustomSectionInput struct {
	OwnerID   uuid.UUID
	SectionID string
}

func (uc *DeleteCustomSectionUseCase) Execute(ctx context.Context, input DeleteCustomSectionInput) error {
	if err := uc.portfolioRepo.RemoveCustomSection(ctx, input.OwnerID, input.SectionID); err != nil {
		return err
	}

	afterMutation(ctx, uc.cache, uc.publisher, uc.logger, "item.deleted", customSectionsName, input.SectionID)
	return nil
}
