package apperrors

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrecondition(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPrecondition(ErrNoSecretKey))
	assert.True(t, IsPrecondition(fmt.Errorf("sync: %w", ErrNoSecretKey)))
	assert.False(t, IsPrecondition(ErrRoomMismatch))
	assert.False(t, IsPrecondition(NewHTTPError("GET", "/R1", 500, nil)))
}

func TestIsTransport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"http error", NewHTTPError("POST", "/R1/ask", 404, []byte("not found")), true},
		{"wrapped http error", fmt.Errorf("ask all: %w", NewHTTPError("POST", "/R1/ask", 502, nil)), true},
		{"transport error", &TransportError{Method: "GET", Path: "/newroom", Err: context.Canceled}, true},
		{"precondition", ErrNoSecretKey, false},
		{"mismatch", ErrRoomMismatch, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsTransport(tt.err))
		})
	}
}

func TestCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ErrCodeNoSecretKey, Code(ErrNoSecretKey))
	assert.Equal(t, ErrCodeRoomNotCreated, Code(ErrRoomNotCreated))
	assert.Equal(t, ErrCodeEmptySnapshot, Code(fmt.Errorf("x: %w", ErrEmptySnapshot)))
	assert.Equal(t, ErrCodeRoomMismatch, Code(ErrRoomMismatch))
	assert.Equal(t, ErrCodeTransport, Code(NewHTTPError("GET", "/", 500, nil)))
	assert.Equal(t, ErrCodeUnknown, Code(fmt.Errorf("boom")))
}

func TestSetupAndSyncErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, ErrRoomNotCreated.Error(), ErrRoomMismatch.Error())
	assert.NotEqual(t, ErrEmptySnapshot.Error(), ErrRoomMismatch.Error())
	assert.NotErrorIs(t, ErrRoomMismatch, ErrRoomNotCreated)
}

func TestHTTPError_Message(t *testing.T) {
	t.Parallel()

	err := NewHTTPError("POST", "/R1/setlocked", 401, []byte("  bad key \n"))
	assert.Equal(t, "POST /R1/setlocked: 401 Unauthorized: bad key", err.Error())
	assert.Equal(t, ErrCodeTransport, err.Code())

	long := NewHTTPError("GET", "/R1", 500, []byte(strings.Repeat("x", 1000)))
	assert.Len(t, long.Body, maxBodyExcerpt+3)
	assert.True(t, strings.HasSuffix(long.Body, "..."))
}

func TestTransportError_Unwrap(t *testing.T) {
	t.Parallel()

	err := &TransportError{Method: "GET", Path: "/newroom", Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "GET /newroom")
}
