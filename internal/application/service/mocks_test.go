package service

import (
	"context"

	"github.com/garyjia/billed/internal/application/port"
	"github.com/garyjia/billed/internal/domain/entity"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockBillStore struct {
	listFunc   func(ctx context.Context) ([]entity.Bill, error)
	createFunc func(ctx context.Context, req port.CreateRequest) (*entity.UploadResult, error)
	updateFunc func(ctx context.Context, req port.UpdateRequest) (*entity.Bill, error)

	createCalls []port.CreateRequest
	updateCalls []port.UpdateRequest
}

func (m *mockBillStore) List(ctx context.Context) ([]entity.Bill, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockBillStore) Create(ctx context.Context, req port.CreateRequest) (*entity.UploadResult, error) {
	m.createCalls = append(m.createCalls, req)
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &entity.UploadResult{FileURL: "test-file-url", Key: "test-key"}, nil
}

func (m *mockBillStore) Update(ctx context.Context, req port.UpdateRequest) (*entity.Bill, error) {
	m.updateCalls = append(m.updateCalls, req)
	if m.updateFunc != nil {
		return m.updateFunc(ctx, req)
	}
	bill := req.Data
	return &bill, nil
}

type recordingNavigator struct {
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.routes = append(n.routes, route)
}

type mockNotifier struct {
	notified []*entity.Bill
	err      error
}

func (m *mockNotifier) NotifyBillSubmitted(ctx context.Context, bill *entity.Bill) error {
	m.notified = append(m.notified, bill)
	return m.err
}
