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

type UpdateItemUseCase struct {
	portfolioRepo portfolio.Repository
	cache         DocumentCache
	publisher     EventPublisher
	logger        logger.Logger
}

func NewUpdateItemUseCase(repo portfolio.Repository, cache DocumentCache, publisher EventPublisher, log logger.Logger) *UpdateItemUseCase {
	return &UpdateItemUseCase{
		portfolioRepo: repo,
		cache:         cache,
		publisher:     publisher,
		logger:        log,
	}
}

type UpdateItemInput struct {
	OwnerID uuid.UUID
	Array   string
	ID      string
	Payload map[string]any
}

type UpdateItemOutput struct {
	Item json.RawMessage
}

func (uc *UpdateItemUseCase) Execute(ctx context.Context, input UpdateItemInput) (*UpdateItemOutput, error) {
	if !portfolio.IsArraySection(input.Array) {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("'%s' is not an array section", input.Array), nil)
	}

	patch, err := stripID(input.Payload)
	if err != nil {
		return nil, err
	}

	item, err := uc.portfolioRepo.MergeItem(ctx, input.OwnerID, input.Array, input.ID, patch)
	if err != nil {
		return nil, err
	}

	afterMutation(ctx, uc.cache, uc.publisher, uc.logger, "item.updated", input.Array, input.ID)
	return &UpdateItemOutput{Item: item}, nil
}

// stripID drops a client-supplied identifier from an update payload before it
// reaches the store. Clients routinely echo the element back whole; letting
// "_id" through would reassign the element's identity mid-update.
func stripID(payload map[string]any) (json.RawMessage, error) {
	patch := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == "_id" {
			continue
		}
		patch[k] = v
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, apperror.NewInvalidInput("update payload is not serializable", err)
	}
	return raw, nil
}
