package portfolio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/quangtran/folio-api/internal/domain/portfolio"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/logger"
)

// UpdateSectionUseCase replaces one singleton section (hero, about, contact,
// social, theme) wholesale, creating the document if it does not exist yet.
type UpdateSectionUseCase struct {
	portfolioRepo portfolio.Repository
	cache         DocumentCache
	publisher     EventPublisher
	logger        logger.Logger
}

func NewUpdateSectionUseCase(repo portfolio.Repository, cache DocumentCache, publisher EventPublisher, log logger.Logger) *UpdateSectionUseCase {
	return &UpdateSectionUseCase{
		portfolioRepo: repo,
		cache:         cache,
		publisher:     publisher,
		logger:        log,
	}
}

type UpdateSectionInput struct {
	OwnerID uuid.UUID
	Section string
	Value   map[string]any
}

type UpdateSectionOutput struct {
	// Value is the stored section as the store returned it, not the input
	// echoed back.
	Value json.RawMessage
}

func (uc *UpdateSectionUseCase) Execute(ctx context.Context, input UpdateSectionInput) (*UpdateSectionOutput, error) {
	if !portfolio.IsSingletonSection(input.Section) {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("'%s' is not a singleton section", input.Section), nil)
	}

	value, err := json.Marshal(input.Value)
	if err != nil {
		return nil, apperror.NewInvalidInput("section value is not serializable", err)
	}

	stored, err := uc.portfolioRepo.UpsertSection(ctx, input.OwnerID, input.Section, value)
	if err != nil {
		return nil, err
	}

	afterMutation(ctx, uc.cache, uc.publisher, uc.logger, "section.updated", input.Section, "")
	return &UpdateSectionOutput{Value: stored}, nil
}
