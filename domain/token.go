package domain

import (
	"fmt"
	"time"
)

// PersistedGrant is a stored authorization artifact such as a refresh token,
// an authorization code, a reference token or a user consent.
type PersistedGrant struct {
	Key          string     `json:"key"`
	Type         string     `json:"type"`
	SubjectID    string     `json:"subject_id,omitempty"`
	SessionID    string     `json:"session_id,omitempty"`
	ClientID     string     `json:"client_id"`
	Description  string     `json:"description,omitempty"`
	CreationTime time.Time  `json:"creation_time"`
	Expiration   *time.Time `json:"expiration,omitempty"`
	ConsumedTime *time.Time `json:"consumed_time,omitempty"`
	Data         string     `json:"data"`
}

// PersistedGrantFilter selects grants by equality. Empty fields are not applied.
type PersistedGrantFilter struct {
	SubjectID string
	SessionID string
	ClientID  string
	Type      string
}

// Validate rejects a filter with no values, which would otherwise select every grant.
func (f PersistedGrantFilter) Validate() error {
	if f.SubjectID == "" && f.SessionID == "" && f.ClientID == "" && f.Type == "" {
		return fmt.Errorf("persisted grant filter: %w", ErrNoFilterValues)
	}
	return nil
}
