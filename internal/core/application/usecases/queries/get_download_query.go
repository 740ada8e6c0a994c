package queries

import (
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/guard"
)

var ErrGetDownloadQueryIsNotConstructed = errors.New(
	"GetDownloadQuery must be created via NewGetDownloadQuery constructor",
)

// GetDownloadQuery resolves a download GUID to the extraction result files it
// covers. An order-level GUID covers every delivered item of the order; an
// item-level GUID covers that item alone.
type GetDownloadQuery struct {
	guid kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDownloadQuery creates a query to resolve a download GUID.
func NewGetDownloadQuery(guid kernel.UUID) (GetDownloadQuery, error) {
	if err := guid.Validate(); err != nil {
		return GetDownloadQuery{}, err
	}

	return GetDownloadQuery{
		guid:  guid,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDownloadQuery) Validate() error {
	return q.guard.Validate(ErrGetDownloadQueryIsNotConstructed)
}

// GUID returns the download GUID to resolve.
func (q GetDownloadQuery) GUID() kernel.UUID {
	return q.guid
}

// GetDownloadQueryResponse carries the resolved result files for a download
// GUID. Paths point into the storage backend and are ready to serve.
type GetDownloadQueryResponse struct {
	OrderID kernel.UUID
	Files   []string
}
