package port

import (
	"context"

	"github.com/garyjia/billed/internal/domain/entity"
)

// RequestHeaders carries transport hints for a store call
type RequestHeaders struct {
	// NoContentType keeps the transport from setting its default JSON
	// content type, so the multipart encoder can supply its own boundary
	NoContentType bool
}

// CreateRequest uploads a receipt and opens a bill for it
type CreateRequest struct {
	Data    *entity.MultipartPayload
	Headers RequestHeaders
}

// UpdateRequest persists the full bill under the key returned by Create
type UpdateRequest struct {
	Selector string
	Data     entity.Bill
}

// BillStore is the remote store of bills
type BillStore interface {
	// List returns the current user's bills
	List(ctx context.Context) ([]entity.Bill, error)

	// Create uploads the receipt carried by req
	Create(ctx context.Context, req CreateRequest) (*entity.UploadResult, error)

	// Update persists the bill identified by req.Selector
	Update(ctx context.Context, req UpdateRequest) (*entity.Bill, error)
}
