package internal

import (
	"errors"
	"fmt"
)

// Errors surfaced by the sleep data facade. Normalizer-level malformed
// input is absorbed to an empty result instead; only these propagate.
var (
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrMissingCredential = errors.New("missing credential")
)

// UpstreamError wraps a transport failure or non-2xx response from a
// provider API.
type UpstreamError struct {
	Provider string
	Op       string
	Status   int // 0 when the request never completed
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s returned status %d", e.Provider, e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// AppError is the error shape embedded in API responses.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}
