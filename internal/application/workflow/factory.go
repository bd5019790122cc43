package workflow

import (
	"context"

	domainwf "github.com/garyjia/billed/internal/domain/workflow"
)

// requestActive refuses to start a submission once its request is cancelled
func requestActive(ctx context.Context) bool {
	return ctx.Err() == nil
}

// BuildNewBillStateMachine creates a state machine for one new bill submission.
// Every failure leads back to EDITING so the employee can correct the form.
func BuildNewBillStateMachine() domainwf.StateMachine {
	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StateEditing).
		PermitIf(domainwf.TriggerSubmit, domainwf.StateValidating, requestActive)

	builder.Configure(domainwf.StateValidating).
		Permit(domainwf.TriggerAcceptFile, domainwf.StateUploading).
		Permit(domainwf.TriggerRejectFile, domainwf.StateEditing)

	builder.Configure(domainwf.StateUploading).
		Permit(domainwf.TriggerUploaded, domainwf.StatePersisting).
		Permit(domainwf.TriggerFail, domainwf.StateEditing)

	builder.Configure(domainwf.StatePersisting).
		Permit(domainwf.TriggerPersisted, domainwf.StateNavigating).
		Permit(domainwf.TriggerFail, domainwf.StateEditing)

	// NAVIGATING is terminal

	return builder.Build(domainwf.StateEditing)
}
