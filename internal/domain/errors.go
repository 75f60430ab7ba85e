package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmptyModelResponse = errors.New("empty response from model")
	ErrUnreachable        = errors.New("inference endpoint unreachable")
)

// UpstreamError reports a non-200 status from the inference endpoint.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("inference API error: %d", e.StatusCode)
}

// TimeoutError reports that the inference call exceeded its configured bound.
type TimeoutError struct {
	Seconds int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("inference request timed out after %d seconds", e.Seconds)
}
