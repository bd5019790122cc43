package workflow

// State represents a step of the new bill submission flow
type State string

const (
	StateEditing    State = "EDITING"
	StateValidating State = "VALIDATING"
	StateUploading  State = "UPLOADING"
	StatePersisting State = "PERSISTING"
	StateNavigating State = "NAVIGATING"
)

var validStates = map[State]bool{
	StateEditing:    true,
	StateValidating: true,
	StateUploading:  true,
	StatePersisting: true,
	StateNavigating: true,
}

// IsTerminal returns true once the submission is complete and the view has moved on
func (s State) IsTerminal() bool {
	return s == StateNavigating
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known submission state
func (s State) IsValid() bool {
	return validStates[s]
}
