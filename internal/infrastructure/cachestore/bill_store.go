// Package cachestore caches bill listings in front of any port.BillStore.
package cachestore

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/garyjia/billed/internal/application/port"
	"github.com/garyjia/billed/internal/auth"
	"github.com/garyjia/billed/internal/domain/entity"
)

const anonymousKey = "bills:anonymous"

// BillStore caches List results per user. Create and Update drop the
// user's entry so the next listing reflects the change. Failed listings
// are never cached.
type BillStore struct {
	next   port.BillStore
	cache  *cache.Cache
	logger *zap.Logger
}

// NewBillStore wraps next with a list cache expiring after ttl
func NewBillStore(next port.BillStore, ttl time.Duration, logger *zap.Logger) *BillStore {
	return &BillStore{
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// List implements port.BillStore
func (s *BillStore) List(ctx context.Context) ([]entity.Bill, error) {
	key := cacheKey(ctx)
	if cached, found := s.cache.Get(key); found {
		s.logger.Debug("Bill list cache hit", zap.String("key", key))
		return copyBills(cached.([]entity.Bill)), nil
	}

	bills, err := s.next.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, copyBills(bills), cache.DefaultExpiration)
	return bills, nil
}

// Create implements port.BillStore
func (s *BillStore) Create(ctx context.Context, req port.CreateRequest) (*entity.UploadResult, error) {
	result, err := s.next.Create(ctx, req)
	s.cache.Delete(cacheKey(ctx))
	return result, err
}

// Update implements port.BillStore
func (s *BillStore) Update(ctx context.Context, req port.UpdateRequest) (*entity.Bill, error) {
	bill, err := s.next.Update(ctx, req)
	s.cache.Delete(cacheKey(ctx))
	return bill, err
}

func cacheKey(ctx context.Context) string {
	if session, ok := auth.SessionFromContext(ctx); ok {
		return "bills:" + session.Email
	}
	return anonymousKey
}

func copyBills(bills []entity.Bill) []entity.Bill {
	out := make([]entity.Bill, len(bills))
	copy(out, bills)
	return out
}

// Verify interface compliance
var _ port.BillStore = (*BillStore)(nil)
