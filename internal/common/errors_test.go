package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type markedError struct{ retry bool }

func (e markedError) Error() string   { return "marked" }
func (e markedError) Retryable() bool { return e.retry }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: fmt.Errorf("list: %w", ErrRateLimit), want: true},
		{name: "host unavailable", err: ErrHostUnavailable, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "not found", err: ErrNotFound, want: false},
		{name: "retryable wrapper", err: &RetryableError{Err: ErrNotFound, Retryable: true}, want: true},
		{name: "marked retryable", err: fmt.Errorf("create: %w", markedError{retry: true}), want: true},
		{name: "marked permanent", err: markedError{retry: false}, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	err := NewUserError("No such preset.", ErrNotFound)
	assert.Equal(t, "No such preset.: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	bare := NewUserError("Nothing to do.", nil)
	assert.Equal(t, "Nothing to do.", bare.Error())
}
