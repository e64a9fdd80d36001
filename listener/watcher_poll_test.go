package listener

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/fiamma-chain/cosmwasm-indexer/chain"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func statusAtHeight(height uint64) *chain.Status {
	status := &chain.Status{}
	status.SyncInfo.LatestBlockHeight = strconv.FormatUint(height, 10)

	return status
}

func TestPollWatcher(t *testing.T) {
	t.Parallel()

	newStatusMock := func(fn func() (*chain.Status, error)) *ChainStatusReaderMock {
		statusMock := &ChainStatusReaderMock{}
		statusMock.On("Status", mock.Anything).Return((*chain.Status)(nil), error(nil))
		statusMock.StatusFn = func(_ context.Context) (*chain.Status, error) {
			return fn()
		}

		return statusMock
	}

	t.Run("publishes increasing heights", func(t *testing.T) {
		t.Parallel()

		var (
			lock   sync.Mutex
			height = uint64(100)
		)

		watcher := NewPollWatcher(&PollWatcherConfig{
			BaseInterval: time.Millisecond,
		}, newStatusMock(func() (*chain.Status, error) {
			lock.Lock()
			defer lock.Unlock()

			height++

			return statusAtHeight(height), nil
		}), &progressTrackerMock{height: 100}, hclog.NewNullLogger())

		require.NoError(t, watcher.Start())

		defer watcher.Close()

		first := receiveHeight(t, watcher.HeightCh())
		second := receiveHeight(t, watcher.HeightCh())
		require.Greater(t, second, first)
	})

	t.Run("start fails when node unreachable", func(t *testing.T) {
		t.Parallel()

		statusErr := errors.New("connection refused")

		watcher := NewPollWatcher(&PollWatcherConfig{},
			newStatusMock(func() (*chain.Status, error) {
				return nil, statusErr
			}), &progressTrackerMock{}, hclog.NewNullLogger())

		require.ErrorIs(t, watcher.Start(), statusErr)
	})

	t.Run("transient failures tolerated", func(t *testing.T) {
		t.Parallel()

		var (
			lock  sync.Mutex
			polls int
		)

		watcher := NewPollWatcher(&PollWatcherConfig{
			BaseInterval:     time.Millisecond,
			FailureTolerance: 3,
		}, newStatusMock(func() (*chain.Status, error) {
			lock.Lock()
			defer lock.Unlock()

			polls++
			if polls == 2 || polls == 3 {
				return nil, errors.New("timeout")
			}

			return statusAtHeight(uint64(100 + polls)), nil
		}), &progressTrackerMock{height: 100}, hclog.NewNullLogger())

		require.NoError(t, watcher.Start())

		defer watcher.Close()

		require.Equal(t, uint64(101), receiveHeight(t, watcher.HeightCh()))

		// two failures stay under the tolerance, polling continues
		require.GreaterOrEqual(t, receiveHeight(t, watcher.HeightCh()), uint64(104))

		select {
		case err := <-watcher.ErrorCh():
			t.Fatalf("unexpected error: %v", err)
		default:
		}
	})

	t.Run("persistent failures are fatal", func(t *testing.T) {
		t.Parallel()

		statusErr := errors.New("connection refused")
		polls := 0

		var lock sync.Mutex

		watcher := NewPollWatcher(&PollWatcherConfig{
			BaseInterval:     time.Millisecond,
			FailureTolerance: 2,
		}, newStatusMock(func() (*chain.Status, error) {
			lock.Lock()
			defer lock.Unlock()

			polls++
			if polls == 1 {
				return statusAtHeight(50), nil
			}

			return nil, statusErr
		}), &progressTrackerMock{height: 50}, hclog.NewNullLogger())

		require.NoError(t, watcher.Start())

		defer watcher.Close()

		require.ErrorIs(t, receiveError(t, watcher.ErrorCh()), statusErr)
	})
}

func TestNextPollInterval(t *testing.T) {
	t.Parallel()

	config := &PollWatcherConfig{
		BaseInterval: time.Second,
		MaxInterval:  time.Second * 10,
		LagThreshold: 10,
	}

	// close to the tip the base interval is kept
	require.Equal(t, time.Second, nextPollInterval(config, 0))
	require.Equal(t, time.Second, nextPollInterval(config, 10))

	// interval stretches with the lag
	require.Equal(t, time.Second*2, nextPollInterval(config, 11))
	require.Equal(t, time.Second*3, nextPollInterval(config, 25))

	// capped at the maximum
	require.Equal(t, time.Second*10, nextPollInterval(config, 1000))

	// overflow safe
	require.Equal(t, time.Second*10, nextPollInterval(config, 1<<63))
}
