package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExecuteWithRetry(t *testing.T) {
	t.Parallel()

	errWrong := errors.New("something went wrong")

	t.Run("first try succeeds", func(t *testing.T) {
		t.Parallel()

		cnt := 0
		result, err := ExecuteWithRetry(context.Background(), func(_ context.Context) (int, error) {
			cnt++

			return 42, nil
		})

		require.NoError(t, err)
		require.Equal(t, 42, result)
		require.Equal(t, 1, cnt)
	})

	t.Run("non retryable error stops immediately", func(t *testing.T) {
		t.Parallel()

		cnt := 0
		_, err := ExecuteWithRetry(context.Background(), func(_ context.Context) (int, error) {
			cnt++

			return 0, errWrong
		}, WithIsRetryableError(func(err error) bool {
			return false
		}))

		require.ErrorIs(t, err, errWrong)
		require.Equal(t, 1, cnt)
	})

	t.Run("succeeds after retries", func(t *testing.T) {
		t.Parallel()

		cnt := 0
		result, err := ExecuteWithRetry(context.Background(), func(_ context.Context) (string, error) {
			cnt++
			if cnt < 3 {
				return "", errWrong
			}

			return "done", nil
		}, WithRetryWaitTime(time.Millisecond), WithIsRetryableError(func(err error) bool {
			return true
		}))

		require.NoError(t, err)
		require.Equal(t, "done", result)
		require.Equal(t, 3, cnt)
	})

	t.Run("retry count exceeded", func(t *testing.T) {
		t.Parallel()

		_, err := ExecuteWithRetry(context.Background(), func(_ context.Context) (int, error) {
			return 0, errWrong
		}, WithRetryCount(2), WithRetryWaitTime(time.Millisecond),
			WithIsRetryableError(func(err error) bool { return true }))

		require.ErrorIs(t, err, ErrRetryTimeout)
	})

	t.Run("context canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := ExecuteWithRetry(ctx, func(_ context.Context) (int, error) {
			return 0, errWrong
		}, WithRetryWaitTime(time.Millisecond),
			WithIsRetryableError(func(err error) bool { return true }))

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsContextDoneErr(t *testing.T) {
	t.Parallel()

	require.True(t, IsContextDoneErr(context.Canceled))
	require.True(t, IsContextDoneErr(context.DeadlineExceeded))
	require.False(t, IsContextDoneErr(errors.New("random")))
}
