package serverutils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ValidationError is a client error caused by a missing or blank required field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UnsupportedMediaError is returned when an uploaded file is not of an accepted type.
type UnsupportedMediaError struct {
	Message   string
	MediaType string
}

func (e *UnsupportedMediaError) Error() string {
	if e.MediaType == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (got %q)", e.Message, e.MediaType)
}

// TransportError wraps a failed round trip to a remote collaborator.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// InternalError hides an unexpected fault behind a public message.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// StatusFor maps an error onto the HTTP status and the message safe to show callers.
func StatusFor(err error, internalMessage string) (int, string) {
	var validationErr *ValidationError
	var mediaErr *UnsupportedMediaError
	var notFoundErr *NotFoundError
	var transportErr *TransportError
	var internalErr *InternalError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Message
	case errors.As(err, &mediaErr):
		return fiber.StatusBadRequest, mediaErr.Message
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound, notFoundErr.Message
	case errors.As(err, &transportErr):
		return fiber.StatusBadGateway, internalMessage
	case errors.As(err, &internalErr):
		if internalErr.Message != "" {
			return fiber.StatusInternalServerError, internalErr.Message
		}
		return fiber.StatusInternalServerError, internalMessage
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	default:
		return fiber.StatusInternalServerError, internalMessage
	}
}
