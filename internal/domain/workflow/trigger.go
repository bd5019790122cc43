package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerSubmit     Trigger = "SUBMIT"
	TriggerAcceptFile Trigger = "ACCEPT_FILE"
	TriggerRejectFile Trigger = "REJECT_FILE"
	TriggerUploaded   Trigger = "UPLOADED"
	TriggerPersisted  Trigger = "PERSISTED"
	TriggerFail       Trigger = "FAIL"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
