package portfolio

import (
	"context"
	"fmt"

	"github.com/quangtran/folio-api/internal/domain/portfolio"
)

type GetPortfolioUseCase struct {
	portfolioRepo portfolio.Repository
	cache         DocumentCache
}

func NewGetPortfolioUseCase(repo portfolio.Repository, cache DocumentCache) *GetPortfolioUseCase {
	return &GetPortfolioUseCase{portfolioRepo: repo, cache: cache}
}

type GetPortfolioOutput struct {
	Document *portfolio.Document
}

// Execute serves the public document, read-through cached. An absent
// document comes back as the empty default shape, never as an error.
func (uc *GetPortfolioUseCase) Execute(ctx context.Context) (*GetPortfolioOutput, error) {
	if doc, ok := uc.cache.Get(ctx); ok {
		return &GetPortfolioOutput{Document: doc}, nil
	}

	doc, err := uc.portfolioRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get portfolio failed: %w", err)
	}

	uc.cache.Set(ctx, doc)
	return &GetPortfolioOutput{Document: doc}, nil
}
