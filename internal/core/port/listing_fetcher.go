package port

import (
	"context"

	"github.com/Newichka/autoBro/internal/core/domain"
)

// ListingFetcherPort - внешний парсер объявлений
type ListingFetcherPort interface {
	FetchListings(ctx context.Context, url string) ([]domain.ParsedListing, error)
	FetchDetail(ctx context.Context, url string) (*domain.ParsedListing, error)
}
