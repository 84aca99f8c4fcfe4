package entities

import (
	"errors"
	"fmt"
)

// Ledger errors. All are recoverable and surface to the caller as a user-visible message.
var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrRateLimitExceeded      = errors.New("rate limit exceeded")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrUnauthorized           = errors.New("unauthorized")
)

// Lookup and input errors
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrEntryNotFound       = errors.New("ledger entry not found")
	ErrChatMessageNotFound = errors.New("chat message not found")
	ErrAccountBanned       = errors.New("account is banned")
	ErrUnknownItem         = errors.New("unknown shop item")
	ErrAlreadyOwned        = errors.New("item already owned")
	ErrBlockedContent      = errors.New("message contains blocked content")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateAccount    = errors.New("username or email already registered")
	ErrInvalidInput        = errors.New("invalid input")
)

// BlockedMessageError reports a chat message rejected by moderation together with
// the sender's strike count inside the current window.
type BlockedMessageError struct {
	Strikes int64
}

func (e *BlockedMessageError) Error() string {
	return fmt.Sprintf("%s (strike %d)", ErrBlockedContent, e.Strikes)
}

func (e *BlockedMessageError) Unwrap() error {
	return ErrBlockedContent
}
