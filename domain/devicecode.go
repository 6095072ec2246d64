package domain

import "time"

// ClaimSubject is the claim type carrying the subject identifier.
const ClaimSubject = "sub"

// Claim is a single type/value claim of a principal.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Subject is the user who approved a device authorization.
type Subject struct {
	AuthenticationType string  `json:"authentication_type,omitempty"`
	Claims             []Claim `json:"claims"`
}

// ID returns the value of the first sub claim, or "" when absent.
func (s *Subject) ID() string {
	if s == nil {
		return ""
	}
	for _, c := range s.Claims {
		if c.Type == ClaimSubject {
			return c.Value
		}
	}
	return ""
}

// DeviceCode holds the state of a device authorization request (RFC 8628).
type DeviceCode struct {
	CreationTime     time.Time `json:"creation_time"`
	Lifetime         int       `json:"lifetime"` // seconds
	ClientID         string    `json:"client_id"`
	Description      string    `json:"description,omitempty"`
	IsOpenID         bool      `json:"is_open_id"`
	IsAuthorized     bool      `json:"is_authorized"`
	RequestedScopes  []string  `json:"requested_scopes,omitempty"`
	AuthorizedScopes []string  `json:"authorized_scopes,omitempty"`
	Subject          *Subject  `json:"subject,omitempty"`
	SessionID        string    `json:"session_id,omitempty"`
}

// ExpiresAt returns the instant the code stops being valid.
func (d *DeviceCode) ExpiresAt() time.Time {
	return d.CreationTime.Add(time.Duration(d.Lifetime) * time.Second)
}
