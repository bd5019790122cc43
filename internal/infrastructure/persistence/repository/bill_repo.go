package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/billed/internal/application/port"
	"github.com/garyjia/billed/internal/auth"
	"github.com/garyjia/billed/internal/domain/entity"
	"github.com/garyjia/billed/internal/infrastructure/storage"
)

var (
	// ErrNoSession is returned when a store call carries no connected user
	ErrNoSession = errors.New("no session in context")

	// ErrBillNotFound is returned when no bill of the user matches the selector
	ErrBillNotFound = errors.New("bill not found")
)

// BillRepository implements port.BillStore on the local SQLite database.
// Receipts are written to file storage and served under receiptURLPrefix.
type BillRepository struct {
	db               *sql.DB
	files            port.FileStorage
	receiptURLPrefix string
	logger           *zap.Logger
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *sql.DB, files port.FileStorage, receiptURLPrefix string, logger *zap.Logger) *BillRepository {
	return &BillRepository{
		db:               db,
		files:            files,
		receiptURLPrefix: receiptURLPrefix,
		logger:           logger,
	}
}

// List returns the connected user's bills in insertion order
func (r *BillRepository) List(ctx context.Context) ([]entity.Bill, error) {
	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	query := `
		SELECT id, email, type, name, date, amount, vat, pct, commentary,
			status, file_url, file_name, comment_admin
		FROM bills
		WHERE email = ?
		ORDER BY created_at, rowid
	`

	rows, err := r.db.QueryContext(ctx, query, session.Email)
	if err != nil {
		r.logger.Error("Failed to list bills", zap.String("email", session.Email), zap.Error(err))
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]entity.Bill, 0)
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, *bill)
	}
	return bills, rows.Err()
}

// Create stores the receipt and opens a pending bill for it
func (r *BillRepository) Create(ctx context.Context, req port.CreateRequest) (*entity.UploadResult, error) {
	if req.Data == nil {
		return nil, fmt.Errorf("create request has no payload")
	}
	if req.Data.Email == "" {
		return nil, fmt.Errorf("create request has no email")
	}

	key := uuid.NewString()
	relPath := storage.ReceiptPath(key, req.Data.File.Name)
	if err := r.files.Save(ctx, relPath, req.Data.File.Content); err != nil {
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}
	fileURL := r.receiptURLPrefix + "/" + relPath

	query := `
		INSERT INTO bills (id, email, status, file_url, file_name)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		key,
		req.Data.Email,
		string(entity.BillStatusPending),
		fileURL,
		req.Data.File.Name,
	)
	if err != nil {
		r.logger.Error("Failed to create bill", zap.String("key", key), zap.Error(err))
		if delErr := r.files.Delete(ctx, relPath); delErr != nil {
			r.logger.Error("Failed to remove orphan receipt", zap.String("path", relPath), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	r.logger.Info("Bill created",
		zap.String("key", key),
		zap.String("email", req.Data.Email),
		zap.String("file_name", req.Data.File.Name))

	return &entity.UploadResult{FileURL: fileURL, Key: key}, nil
}

// Update persists the form fields of the connected user's bill
func (r *BillRepository) Update(ctx context.Context, req port.UpdateRequest) (*entity.Bill, error) {
	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	bill := req.Data
	query := `
		UPDATE bills
		SET type = ?, name = ?, date = ?, amount = ?, vat = ?, pct = ?,
			commentary = ?, status = ?, file_url = ?, file_name = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND email = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		bill.Type,
		bill.Name,
		bill.Date,
		bill.Amount,
		bill.VAT,
		bill.Pct,
		bill.Commentary,
		string(bill.Status),
		bill.FileURL,
		bill.FileName,
		req.Selector,
		session.Email,
	)
	if err != nil {
		r.logger.Error("Failed to update bill", zap.String("key", req.Selector), zap.Error(err))
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrBillNotFound, req.Selector)
	}

	return r.getByID(ctx, req.Selector)
}

func (r *BillRepository) getByID(ctx context.Context, id string) (*entity.Bill, error) {
	query := `
		SELECT id, email, type, name, date, amount, vat, pct, commentary,
			status, file_url, file_name, comment_admin
		FROM bills
		WHERE id = ?
	`

	bill, err := scanBill(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBillNotFound, id)
	}
	return bill, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBill(row rowScanner) (*entity.Bill, error) {
	var bill entity.Bill
	var status string

	err := row.Scan(
		&bill.ID,
		&bill.Email,
		&bill.Type,
		&bill.Name,
		&bill.Date,
		&bill.Amount,
		&bill.VAT,
		&bill.Pct,
		&bill.Commentary,
		&status,
		&bill.FileURL,
		&bill.FileName,
		&bill.CommentAdmin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan bill: %w", err)
	}

	bill.Status = entity.BillStatus(status)
	return &bill, nil
}

// Verify interface compliance
var _ port.BillStore = (*BillRepository)(nil)
