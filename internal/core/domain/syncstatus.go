package domain

import "time"

// SyncProgress reports how far a full sync has advanced, one step per
// entity kind.
type SyncProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Stage   string `json:"stage"`
}

// SyncStatus is the process-wide session state exposed to consumers.
//
// HasInitialLoad is true iff at least one full sync completed successfully
// since the mirror was last cleared. LastSyncAt only ever advances; a failed
// sync leaves it untouched.
type SyncStatus struct {
	IsLoading      bool          `json:"is_loading"`
	LastSyncAt     *time.Time    `json:"last_sync_at,omitempty"`
	HasInitialLoad bool          `json:"has_initial_load"`
	Error          string        `json:"error,omitempty"`
	Progress       *SyncProgress `json:"progress,omitempty"`
}

// Sanitized returns a copy safe for durable storage: transient loading state
// must never survive a process restart.
func (s SyncStatus) Sanitized() SyncStatus {
	s.IsLoading = false
	s.Progress = nil
	return s
}

// Snapshot is the durable form of the mirror: the five collections plus the
// sanitized sync status.
type Snapshot struct {
	Units          []Unit             `json:"units"`
	Franchisees    []Franchisee       `json:"franchisees"`
	Billing        []BillingRecord    `json:"billing"`
	Staff          []InternalUser     `json:"staff"`
	Communications []CommunicationLog `json:"communications"`
	Status         SyncStatus         `json:"status"`
	SavedAt        time.Time          `json:"saved_at"`
}

// SessionKind distinguishes how a session was established.
type SessionKind string

const (
	SessionStaff   SessionKind = "staff"
	SessionService SessionKind = "service"
)

// Session identifies an authenticated console session. A new session id is
// minted at every login.
type Session struct {
	ID     string      `json:"id"`
	UserID string      `json:"user_id"`
	Kind   SessionKind `json:"kind"`
}
