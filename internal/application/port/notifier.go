package port

import (
	"context"

	"github.com/garyjia/billed/internal/domain/entity"
)

// BillNotifier tells approvers that a bill is waiting for review
type BillNotifier interface {
	NotifyBillSubmitted(ctx context.Context, bill *entity.Bill) error
}
