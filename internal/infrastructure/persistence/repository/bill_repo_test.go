package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/billed/internal/application/port"
	"github.com/garyjia/billed/internal/auth"
	"github.com/garyjia/billed/internal/domain/entity"
	"github.com/garyjia/billed/internal/infrastructure/storage"
	"github.com/garyjia/billed/migrations"
	"github.com/garyjia/billed/pkg/database"
)

func setupBillRepository(t *testing.T) (*BillRepository, *storage.LocalFileStorage) {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:            filepath.Join(dir, "billed.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations(migrations.FS))

	files := storage.NewLocalFileStorage(filepath.Join(dir, "receipts"), logger)
	return NewBillRepository(db.DB, files, "/receipts", logger), files
}

func employeeContext(email string) context.Context {
	return auth.WithSession(context.Background(), &auth.Session{Email: email, Type: entity.UserTypeEmployee})
}

func createRequest(email, fileName string) port.CreateRequest {
	return port.CreateRequest{
		Data: entity.NewMultipartPayload(email, entity.ReceiptFile{
			Name:    fileName,
			Content: []byte("file content"),
		}),
		Headers: port.RequestHeaders{NoContentType: true},
	}
}

func TestBillRepository_CreateUpdateList(t *testing.T) {
	repo, files := setupBillRepository(t)
	ctx := employeeContext("employee@test.tld")

	result, err := repo.Create(ctx, createRequest("employee@test.tld", "test.jpg"))
	require.NoError(t, err)
	require.NotEmpty(t, result.Key)
	assert.Equal(t, "/receipts/"+result.Key+"/test.jpg", result.FileURL)
	assert.True(t, files.Exists(ctx, storage.ReceiptPath(result.Key, "test.jpg")))

	updated, err := repo.Update(ctx, port.UpdateRequest{
		Selector: result.Key,
		Data: entity.Bill{
			ID:         result.Key,
			Email:      "employee@test.tld",
			Type:       entity.ExpenseTypeTransports,
			Name:       "Vol Paris Londres",
			Date:       "2022-01-01",
			Amount:     348,
			VAT:        "70",
			Pct:        20,
			Commentary: "Business lunch",
			Status:     entity.BillStatusPending,
			FileURL:    result.FileURL,
			FileName:   "test.jpg",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Vol Paris Londres", updated.Name)
	assert.Equal(t, float64(348), updated.Amount)

	bills, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, result.Key, bills[0].ID)
	assert.Equal(t, "2022-01-01", bills[0].Date)
	assert.Equal(t, entity.BillStatusPending, bills[0].Status)
}

func TestBillRepository_ScopesByUser(t *testing.T) {
	repo, _ := setupBillRepository(t)
	alice := employeeContext("alice@test.tld")
	bob := employeeContext("bob@test.tld")

	result, err := repo.Create(alice, createRequest("alice@test.tld", "a.png"))
	require.NoError(t, err)

	bills, err := repo.List(bob)
	require.NoError(t, err)
	assert.Empty(t, bills)

	_, err = repo.Update(bob, port.UpdateRequest{Selector: result.Key, Data: entity.Bill{Name: "stolen"}})
	assert.ErrorIs(t, err, ErrBillNotFound)
}

func TestBillRepository_RequiresSession(t *testing.T) {
	repo, _ := setupBillRepository(t)

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = repo.Update(context.Background(), port.UpdateRequest{Selector: "x"})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestBillRepository_CreateRejectsEmptyPayload(t *testing.T) {
	repo, _ := setupBillRepository(t)

	_, err := repo.Create(employeeContext("employee@test.tld"), port.CreateRequest{})
	assert.Error(t, err)
}
