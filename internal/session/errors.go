package session

import (
	"errors"
	"fmt"
	"log"
)

var (
	ErrEmptyInput   = errors.New("input cannot be empty")
	ErrNoCode       = errors.New("no code generated yet")
	ErrNoSelection  = errors.New("no image selected")
	ErrNotImageMode = errors.New("image selection requires image mode")
	ErrInvalidMode  = errors.New("unknown editing mode")
	ErrBusy         = errors.New("action already in progress")
	// ErrEmptyModification means the model answered but produced no code.
	ErrEmptyModification = errors.New("the AI returned an empty modification")
)

// Error is a failure ready to be shown to the user as a transient
// notification. Err keeps the cause for errors.Is/As.
type Error struct {
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Title, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Title, e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func userError(title, message string, err error) *Error {
	return &Error{Title: title, Message: message, Err: err}
}

// remoteFailure logs the gateway error and hides it behind a generic message.
func remoteFailure(op, title, message string, err error) *Error {
	log.Printf("Error in %s: %v", op, err)
	return userError(title, message, err)
}

// Notice is a non-error notification, such as a selection confirmation.
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}
