package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFromStore(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"not found", status.Error(codes.NotFound, "missing"), CodeNotFound, http.StatusNotFound},
		{"aborted", status.Error(codes.Aborted, "contention"), CodeConflict, http.StatusConflict},
		{"already exists", status.Error(codes.AlreadyExists, "dup"), CodeConflict, http.StatusConflict},
		{"unavailable", status.Error(codes.Unavailable, "down"), CodeTransient, http.StatusServiceUnavailable},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), CodeTransient, http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStore("Listing", tt.err)

			var appErr *AppError
			if assert.ErrorAs(t, err, &appErr) {
				assert.Equal(t, tt.wantCode, appErr.Code)
				assert.Equal(t, tt.wantStatus, appErr.Status)
			}
		})
	}
}

func TestFromStorePassesAppErrorThrough(t *testing.T) {
	original := InsufficientBalance(900, 50)
	assert.Same(t, original, FromStore("User", original))
	assert.Nil(t, FromStore("User", nil))
}

func TestIsAndCodeOf(t *testing.T) {
	err := fmt.Errorf("purchase: %w", InsufficientBalance(100, 10))

	assert.True(t, Is(err, CodeInsufficientBalance))
	assert.False(t, Is(err, CodeConflict))
	assert.Equal(t, CodeInsufficientBalance, CodeOf(err))
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("plain")))
}

func TestWrap(t *testing.T) {
	conflict := Conflict("Username is already taken")
	assert.Same(t, conflict, Wrap(conflict, "Failed to create account"))
	assert.Nil(t, Wrap(nil, "unused"))

	wrapped := Wrap(context.Canceled, "Failed to sign in")
	assert.Equal(t, CodeInternal, CodeOf(wrapped))
	assert.ErrorIs(t, wrapped, context.Canceled)
}
