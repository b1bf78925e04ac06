package portfolio

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quangtran/folio-api/internal/domain/portfolio"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/logger"
)

// DeleteItemUseCase pulls one element from an array section. Deleting an id
// that is already gone still acknowledges success; only an absent document
// is a not-found.
type DeleteItemUseCase struct {
	portfolioRepo portfolio.Repository
	cache         DocumentCache
	publisher     EventPublisher
	logger        logger.Logger
}

func NewDeleteItemUseCase(repo portfolio.Repository, cache DocumentCache, publisher EventPublisher, log logger.Logger) *DeleteItemUseCase {
	return &DeleteItemUseCase{
		portfolioRepo: repo,
		cache:         cache,
		publisher:     publisher,
		logger:        log,
	}
}

type DeleteItemInput struct {
	OwnerID uuid.UUID
	Array   string
	ID      string
}

func (uc *DeleteItemUseCase) Execute(ctx context.Context, input DeleteItemInput) error {
	if !portfolio.IsArraySection(input.Array) {
		return apperror.NewInvalidInput(fmt.Sprintf("'%s' is not an array section", input.Array), nil)
	}

	if err := uc.portfolioRepo.RemoveItem(ctx, input.OwnerID, input.Array, input.ID); err != nil {
		return err
	}

	afterMutation(ctx, uc.cache, uc.publisher, uc.logger, "item.deleted", input.Array, input.ID)
	return nil
}
