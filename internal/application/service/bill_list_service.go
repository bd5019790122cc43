package service

import (
	"context"

	"github.com/garyjia/billed/internal/application/port"
	"github.com/garyjia/billed/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// BillsView is what the bills page renders
type BillsView struct {
	Data    []entity.Bill
	Loading bool
	Error   string
}

// NewBillsView builds the page data, ordering bills most recent first.
// The given slice is left untouched.
func NewBillsView(bills []entity.Bill, loading bool, errMsg string) *BillsView {
	return &BillsView{
		Data:    entity.SortByDateDesc(bills),
		Loading: loading,
		Error:   errMsg,
	}
}

// BillListService loads the bills page for the current user
type BillListService interface {
	// Load fetches the bills from the store. A store failure is not
	// returned as an error: the view carries its message instead.
	Load(ctx context.Context) *BillsView

	// List fetches the bills in display order
	List(ctx context.Context) ([]entity.Bill, error)
}

type billListServiceImpl struct {
	store  port.BillStore
	logger Logger
}

// NewBillListService creates a new BillListService
func NewBillListService(store port.BillStore, logger Logger) BillListService {
	return &billListServiceImpl{
		store:  store,
		logger: logger,
	}
}

func (s *billListServiceImpl) Load(ctx context.Context) *BillsView {
	bills, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list bills", "error", err)
		return NewBillsView(nil, false, err.Error())
	}
	return NewBillsView(bills, false, "")
}

func (s *billListServiceImpl) List(ctx context.Context) ([]entity.Bill, error) {
	bills, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list bills", "error", err)
		return nil, err
	}
	return entity.SortByDateDesc(bills), nil
}
