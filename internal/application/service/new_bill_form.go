package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/garyjia/billed/internal/application/port"
	appwf "github.com/garyjia/billed/internal/application/workflow"
	"github.com/garyjia/billed/internal/domain/entity"
	domainwf "github.com/garyjia/billed/internal/domain/workflow"
)

// DefaultAllowedExtensions are the receipt formats accepted by the form
var DefaultAllowedExtensions = []string{"jpg", "jpeg", "png"}

var (
	// ErrInvalidExtension is returned when the receipt is not an accepted image format
	ErrInvalidExtension = errors.New("invalid receipt extension")

	// ErrUploadFailed is returned when the store rejected the receipt upload
	ErrUploadFailed = errors.New("receipt upload failed")

	// ErrPersistFailed is returned when the store rejected the bill update
	ErrPersistFailed = errors.New("bill update failed")
)

// IsExtensionValid reports whether the text after the last dot of filename,
// lower-cased, is one of allowed. A filename without a dot is never valid.
func IsExtensionValid(filename string, allowed []string) bool {
	ext := filepath.Ext(filename)
	if ext == "" {
		return false
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// NewBillForm drives one new bill submission.
// A form is single use: once it navigated away it refuses further submissions.
type NewBillForm struct {
	store     port.BillStore
	navigator port.Navigator
	notifier  port.BillNotifier
	email     string
	allowed   []string
	machine   domainwf.StateMachine
	logger    Logger
}

// NewNewBillForm creates a form for the employee identified by email.
// notifier may be nil. A nil allowed list falls back to DefaultAllowedExtensions.
func NewNewBillForm(
	store port.BillStore,
	navigator port.Navigator,
	notifier port.BillNotifier,
	email string,
	allowed []string,
	logger Logger,
) *NewBillForm {
	if len(allowed) == 0 {
		allowed = DefaultAllowedExtensions
	}
	return &NewBillForm{
		store:     store,
		navigator: navigator,
		notifier:  notifier,
		email:     email,
		allowed:   allowed,
		machine:   appwf.BuildNewBillStateMachine(),
		logger:    logger,
	}
}

// State returns the current submission state
func (f *NewBillForm) State() domainwf.State {
	return f.machine.State()
}

// AllowedExtensions returns the accepted receipt extensions
func (f *NewBillForm) AllowedExtensions() []string {
	return f.allowed
}

// Submit validates the receipt, uploads it, persists the bill and navigates
// to the bills list. On any failure the form is back in EDITING and nothing
// is navigated. An invalid extension never reaches the store.
func (f *NewBillForm) Submit(ctx context.Context, draft *entity.NewBillDraft) error {
	if err := f.machine.Fire(ctx, domainwf.TriggerSubmit); err != nil {
		return err
	}

	if !IsExtensionValid(draft.File.Name, f.allowed) {
		f.logger.Info("Receipt rejected",
			"email", f.email,
			"file_name", draft.File.Name)
		if err := f.machine.Fire(ctx, domainwf.TriggerRejectFile); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrInvalidExtension, draft.File.Name)
	}
	if err := f.machine.Fire(ctx, domainwf.TriggerAcceptFile); err != nil {
		return err
	}

	result, err := f.store.Create(ctx, port.CreateRequest{
		Data:    entity.NewMultipartPayload(f.email, draft.File),
		Headers: port.RequestHeaders{NoContentType: true},
	})
	if err != nil {
		f.logger.Error("Failed to upload receipt",
			"email", f.email,
			"file_name", draft.File.Name,
			"error", err)
		f.fail(ctx)
		return fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	draft.FileURL = result.FileURL
	draft.Key = result.Key
	if err := f.machine.Fire(ctx, domainwf.TriggerUploaded); err != nil {
		return err
	}

	bill, err := f.UpdateBill(ctx, draft.ToBill(f.email))
	if err != nil {
		f.fail(ctx)
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	if err := f.machine.Fire(ctx, domainwf.TriggerPersisted); err != nil {
		return err
	}

	f.logger.Info("Bill submitted",
		"key", draft.Key,
		"email", f.email,
		"amount", draft.Amount)

	if f.notifier != nil {
		if err := f.notifier.NotifyBillSubmitted(ctx, bill); err != nil {
			f.logger.Error("Failed to notify approvers", "key", draft.Key, "error", err)
		}
	}

	f.navigator.Navigate(port.RouteBills)
	return nil
}

// UpdateBill persists bill under its key
func (f *NewBillForm) UpdateBill(ctx context.Context, bill entity.Bill) (*entity.Bill, error) {
	updated, err := f.store.Update(ctx, port.UpdateRequest{
		Selector: bill.ID,
		Data:     bill,
	})
	if err != nil {
		f.logger.Error("Failed to update bill", "key", bill.ID, "error", err)
		return nil, err
	}
	if updated == nil {
		updated = &bill
	}
	return updated, nil
}

func (f *NewBillForm) fail(ctx context.Context) {
	if err := f.machine.Fire(ctx, domainwf.TriggerFail); err != nil {
		f.logger.Error("Failed to reset submission state", "state", f.machine.State(), "error", err)
	}
}
