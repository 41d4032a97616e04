package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCodeUnwrapsChains(t *testing.T) {
	base := NotFound("friendship not found")
	require.Equal(t, CodeNotFound, ErrorCode(base))

	wrapped := fmt.Errorf("update status: %w", base)
	require.Equal(t, CodeNotFound, ErrorCode(wrapped))

	require.Equal(t, CodeInternal, ErrorCode(errors.New("plain failure")))
	require.Equal(t, CodeInternal, ErrorCode(nil))
}

func TestErrorIsMatchesByCode(t *testing.T) {
	sentinel := Forbidden("not a member of this thread")
	got := fmt.Errorf("list messages: %w", Forbidden("not a member of this thread"))
	require.ErrorIs(t, got, sentinel)

	require.NotErrorIs(t, NotFound("thread not found"), sentinel)
}

func TestWrapErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(CodeInternal, "query friendships", cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "query friendships")
	require.Contains(t, err.Error(), "connection refused")
}
