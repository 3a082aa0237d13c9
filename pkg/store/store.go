// Package store provides read-only access to the company and emissions
// record dataset. The engine queries the store and never writes through it;
// dataset files are produced by external ingestion tooling.
package store

import (
	"context"
	"errors"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
)

// ErrNotFound is returned when a company or a requested reporting year does
// not exist in the store. Callers must handle it explicitly; it is never
// silently substituted with zero values.
var ErrNotFound = errors.New("record not found")

// RecordStore is the read-only tabular store the engine runs over.
// Implementations must be safe for concurrent reads.
type RecordStore interface {
	// GetCompany returns the company record for id, or ErrNotFound.
	GetCompany(ctx context.Context, id string) (*models.Company, error)

	// GetEmissions returns the company's reports ordered by year
	// descending. With a non-nil year it returns at most that one year's
	// report, or ErrNotFound when the year is absent. A company with no
	// reports at all yields an empty slice, not an error, when year is
	// nil.
	GetEmissions(ctx context.Context, companyID string, year *int) ([]*models.EmissionsReport, error)

	// ListCompaniesByAttributes returns every company matching all the
	// given attribute filters. An empty filter map matches everything.
	ListCompaniesByAttributes(ctx context.Context, filters map[string]string) ([]*models.Company, error)
}
