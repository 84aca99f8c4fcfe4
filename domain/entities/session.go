package entities

import "fmt"

// Session is the authenticated caller of an operation
type Session struct {
	AccountID int64
	PublicID  string
	Admin     bool
}

// Authorization is the typed outcome of a capability check
type Authorization struct {
	Granted    bool
	Capability Capability
	Reason     string
}

// Err converts a denied authorization into ErrUnauthorized
func (a Authorization) Err() error {
	if a.Granted {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnauthorized, a.Reason)
}
