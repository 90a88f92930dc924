package sync

type SyncState string

const (
	StateIdle    SyncState = "idle"
	StateSyncing SyncState = "syncing"
	StateError   SyncState = "error"
)

// Status is the orchestrator's observable state. Message is set only when
// State is StateError.
type Status struct {
	State   SyncState `json:"state"`
	Message string    `json:"message,omitempty"`
}

func idle() Status                 { return Status{State: StateIdle} }
func syncing() Status              { return Status{State: StateSyncing} }
func failed(message string) Status { return Status{State: StateError, Message: message} }

// Progress reports how far an initial catalog sync has come. It is transient:
// each run overwrites the previous value and nothing persists it.
type Progress struct {
	CurrentPage   int  `json:"currentPage"`
	TotalProducts int  `json:"totalProducts"`
	Complete      bool `json:"complete"`
}
