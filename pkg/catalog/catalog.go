// Package catalog defines how the matching pipeline talks to product
// catalogs and provides an HTTP implementation for JSON catalog APIs.
package catalog

import (
	"context"

	"github.com/Ramsey-B/clover/pkg/models"
)

// Searcher finds catalog items matching a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.ProductRecord, error)
}

// DetailFetcher loads the full record for a single catalog item.
type DetailFetcher interface {
	FetchDetails(ctx context.Context, itemID string) (models.ProductRecord, error)
}

// Catalog is a named product catalog the pipeline can search and enrich from.
type Catalog interface {
	Searcher
	DetailFetcher

	// Name identifies the catalog in logs and run reports.
	Name() string
}
