package portfolio

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quangtran/folio-api/adapters/event"
	"github.com/quangtran/folio-api/internal/domain/portfolio"
	"github.com/quangtran/folio-api/pkg/logger"
)

// DocumentCache fronts the public document read. Implementations must treat
// failures as misses; the store stays the source of truth.
type DocumentCache interface {
	Get(ctx context.Context) (*portfolio.Document, bool)
	Set(ctx context.Context, doc *portfolio.Document)
	Invalidate(ctx context.Context)
}

// EventPublisher announces content changes. Publishing is best effort:
// use cases log failures but never fail the mutation over them.
type EventPublisher interface {
	PublishPortfolioEvent(ctx context.Context, payload event.PortfolioEventPayload) error
}

// afterMutation drops the cached document and announces the change.
func afterMutation(ctx context.Context, cache DocumentCache, publisher EventPublisher, log logger.Logger, eventType, section, itemID string) {
	cache.Invalidate(ctx)
	payload := event.PortfolioEventPayload{
		EventType: eventType,
		Section:   section,
		ItemID:    itemID,
		At:        time.Now().UTC(),
	}
	if err := publisher.PublishPortfolioEvent(ctx, payload); err != nil {
		log.Warn("Failed to publish portfolio event",
			zap.String("event_type", eventType), zap.String("section", section), zap.Error(err))
	}
}
