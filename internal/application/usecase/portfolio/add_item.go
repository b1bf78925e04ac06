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

type AddItemUseCase struct {
	portfolioRepo portfolio.Repository
	cache         DocumentCache
	publisher     EventPublisher
	logger        logger.Logger
}

func NewAddItemUseCase(repo portfolio.Repository, cache DocumentCache, publisher EventPublisher, log logger.Logger) *AddItemUseCase {
	return &AddItemUseCase{
		portfolioRepo: repo,
		cache:         cache,
		publisher:     publisher,
		logger:        log,
	}
}

type AddItemInput struct {
	OwnerID uuid.UUID
	Array   string
	Payload map[string]any
}

type AddItemOutput struct {
	// Item is the created element with its generated identifier, so callers
	// learn the id without re-fetching the document.
	Item json.RawMessage
	ID   string
}

func (uc *AddItemUseCase) Execute(ctx context.Context, input AddItemInput) (*AddItemOutput, error) {
	if !portfolio.IsArraySection(input.Array) {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("'%s' is not an array section", input.Array), nil)
	}

	// The store assigns identity; whatever the client sent is discarded.
	item := make(map[string]any, len(input.Payload)+1)
	for k, v := range input.Payload {
		item[k] = v
	}
	id := portfolio.NewID()
	item["_id"] = id

	raw, err := json.Marshal(item)
	if err != nil {
		return nil, apperror.NewInvalidInput("item payload is not serializable", err)
	}

	if err := uc.portfolioRepo.AppendItem(ctx, input.OwnerID, input.Array, raw); err != nil {
		return nil, err
	}

	afterMutation(ctx, uc.cache, uc.publisher, uc.logger, "item.added", input.Array, id)
	return &AddItemOutput{Item: raw, ID: id}, nil
}
