package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FromStore classifies an error returned by the document store.
// Errors that are already AppErrors pass through untouched.
func FromStore(resource string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Transient("Request to data store timed out", err)
	}

	switch status.Code(err) {
	case codes.NotFound:
		return NotFound(resource, err)
	case codes.AlreadyExists:
		return &AppError{Code: CodeConflict, Message: resource + " already exists", Status: 409, Err: err}
	case codes.Aborted, codes.FailedPrecondition:
		return &AppError{Code: CodeConflict, Message: "Concurrent update, please retry", Status: 409, Err: err}
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return Transient("Data store temporarily unavailable", err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return Internal("Data store rejected credentials", err)
	}

	return Internal("Failed to access "+resource, err)
}
