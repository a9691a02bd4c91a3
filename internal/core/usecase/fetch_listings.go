package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

type FetchListingsUseCase struct {
	fetcher port.ListingFetcherPort
}

func NewFetchListingsUseCase(fetcher port.ListingFetcherPort) *FetchListingsUseCase {
	return &FetchListingsUseCase{fetcher: fetcher}
}

// Execute запускает парсер для страницы поиска или, если details, для одной карточки
func (uc *FetchListingsUseCase) Execute(ctx context.Context, rawURL string, details bool) ([]domain.ParsedListing, error) {
	ucLogger := useCaseLogger(ctx, "FetchListingsUseCase").WithFields(port.Fields{"url": rawURL, "details": details})
	ucLogger.Info("Use case started", nil)

	if err := validateSourceURL(rawURL); err != nil {
		ucLogger.Warn("Rejected source url", port.Fields{"reason": err.Error()})
		return nil, err
	}

	var listings []domain.ParsedListing
	if details {
		listing, err := uc.fetcher.FetchDetail(ctx, rawURL)
		if err != nil {
			ucLogger.Error("Parser failed", err, nil)
			return nil, fmt.Errorf("fetch detail: %w", err)
		}
		if listing != nil {
			listings = []domain.ParsedListing{*listing}
		}
	} else {
		var err error
		listings, err = uc.fetcher.FetchListings(ctx, rawURL)
		if err != nil {
			ucLogger.Error("Parser failed", err, nil)
			return nil, fmt.Errorf("fetch listings: %w", err)
		}
	}
	if listings == nil {
		listings = []domain.ParsedListing{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"listings": len(listings)})
	return listings, nil
}

func validateSourceURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return domain.NewValidationError(map[string]string{"url": "is required"})
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.NewValidationError(map[string]string{"url": "must be an absolute http(s) url"})
	}
	return nil
}

type FetchAndImportUseCase struct {
	fetch    *FetchListingsUseCase
	importer *ImportListingsUseCase
}

func NewFetchAndImportUseCase(fetch *FetchListingsUseCase, importer *ImportListingsUseCase) *FetchAndImportUseCase {
	return &FetchAndImportUseCase{fetch: fetch, importer: importer}
}

func (uc *FetchAndImportUseCase) Execute(ctx context.Context, rawURL string, details bool) (*domain.ImportStats, error) {
	listings, err := uc.fetch.Execute(ctx, rawURL, details)
	if err != nil {
		return nil, err
	}
	return uc.importer.Execute(ctx, listings)
}
