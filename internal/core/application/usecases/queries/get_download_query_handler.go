package queries

import (
	"context"
	"database/sql"
	"errors"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/core/ports"
	"geoshop/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDownloadQueryHandler resolves a download GUID to servable file paths. The
// GUID is looked up item-first: item GUIDs are handed out per validated item,
// the order GUID covers the whole delivery.
type GetDownloadQueryHandler struct {
	db      *gorm.DB
	storage ports.FileStorage
}

// NewGetDownloadQueryHandler creates a handler for download resolution.
func NewGetDownloadQueryHandler(db *gorm.DB, storage ports.FileStorage) GetDownloadQueryHandler {
	return GetDownloadQueryHandler{db: db, storage: storage}
}

// Handle executes the query. An unknown GUID is an ObjectNotFoundError; a
// known GUID whose result file vanished from storage is a FileMissingError,
// so the two failure modes stay distinguishable to the caller.
func (h GetDownloadQueryHandler) Handle(
	ctx context.Context,
	query GetDownloadQuery,
) (GetDownloadQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDownloadQueryResponse{}, err
	}

	orderID, refs, err := h.lookupItem(ctx, query.GUID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		orderID, refs, err = h.lookupOrder(ctx, query.GUID())
	}
	if err != nil {
		return GetDownloadQueryResponse{}, err
	}
	if len(refs) == 0 {
		return GetDownloadQueryResponse{}, errs.NewFileMissingError(query.GUID().String())
	}

	files := make([]string, 0, len(refs))
	for _, ref := range refs {
		path, resolveErr := h.storage.Resolve(ctx, ref)
		if resolveErr != nil {
			return GetDownloadQueryResponse{}, resolveErr
		}
		files = append(files, path)
	}

	return GetDownloadQueryResponse{OrderID: orderID, Files: files}, nil
}

// lookupItem resolves an item-scoped GUID to the single result file of that
// item.
func (h GetDownloadQueryHandler) lookupItem(
	ctx context.Context,
	guid kernel.UUID,
) (kernel.UUID, []string, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT order_id, extract_file_ref
		FROM order_items
		WHERE download_guid = ? AND status = ?
	`, guid.Bytes(), order.ItemProcessed).Row()

	var rawOrderID uuid.UUID
	var fileRef string
	if err := row.Scan(&rawOrderID, &fileRef); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kernel.UUID{}, nil, errs.NewObjectNotFoundError("download", guid.String())
		}
		return kernel.UUID{}, nil, err
	}

	orderID, err := kernel.UUIDFromBytes(rawOrderID[:])
	if err != nil {
		return kernel.UUID{}, nil, err
	}
	if fileRef == "" {
		return orderID, nil, nil
	}
	return orderID, []string{fileRef}, nil
}

// lookupOrder resolves an order-scoped GUID to the result files of every
// delivered item of the order.
func (h GetDownloadQueryHandler) lookupOrder(
	ctx context.Context,
	guid kernel.UUID,
) (kernel.UUID, []string, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT id FROM orders WHERE download_guid = ?
	`, guid.Bytes()).Row()

	var rawOrderID uuid.UUID
	if err := row.Scan(&rawOrderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kernel.UUID{}, nil, errs.NewObjectNotFoundError("download", guid.String())
		}
		return kernel.UUID{}, nil, err
	}

	orderID, err := kernel.UUIDFromBytes(rawOrderID[:])
	if err != nil {
		return kernel.UUID{}, nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT extract_file_ref
		FROM order_items
		WHERE order_id = ? AND status = ? AND extract_file_ref <> ''
		ORDER BY product_label
	`, rawOrderID, order.ItemProcessed).Rows()
	if err != nil {
		return kernel.UUID{}, nil, err
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err = rows.Scan(&ref); err != nil {
			return kernel.UUID{}, nil, err
		}
		refs = append(refs, ref)
	}
	if err = rows.Err(); err != nil {
		return kernel.UUID{}, nil, err
	}

	return orderID, refs, nil
}
