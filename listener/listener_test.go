package listener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEventListener(t *testing.T) {
	t.Parallel()

	parser := NewEventParser(testContractAddress)

	newSequencer := func(retriever BlockEventsRetriever) *Sequencer {
		return NewSequencer(&SequencerConfig{StartingHeight: 10}, retriever, parser, hclog.NewNullLogger())
	}

	t.Run("delivers events end to end", func(t *testing.T) {
		t.Parallel()

		retrieverMock := &BlockEventsRetrieverMock{}
		retrieverMock.On("GetBlockEvents", mock.Anything, mock.Anything).Return([]TxEvents(nil), error(nil))
		retrieverMock.GetBlockEventsFn = func(_ context.Context, height uint64) ([]TxEvents, error) {
			return []TxEvents{pegInTxEvents("hash", "fiamma1receiver", 42)}, nil
		}

		subscriptionMock := &NewBlockSubscriptionMock{}
		subscriptionMock.On("Connect", mock.Anything).Return(error(nil))
		subscriptionMock.On("Close").Return(error(nil))

		served := false
		blockCh := make(chan struct{})
		subscriptionMock.ReadHeightFn = func() (uint64, error) {
			if served {
				<-blockCh

				return 0, errors.New("closed")
			}

			served = true

			return 11, nil
		}
		subscriptionMock.On("ReadHeight").Return(uint64(0), error(nil))
		subscriptionMock.CloseFn = func() error {
			close(blockCh)

			return nil
		}

		sequencer := newSequencer(retrieverMock)
		watcher := NewPushWatcher(&PushWatcherConfig{}, subscriptionMock, hclog.NewNullLogger())
		eventListener := NewEventListener(sequencer, watcher, hclog.NewNullLogger())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		startErrCh := make(chan error, 1)

		go func() {
			startErrCh <- eventListener.Start(ctx)
		}()

		blockEvents := receiveBlockEvents(t, eventListener.EventsCh())
		require.Equal(t, uint64(11), blockEvents.Height)
		require.Equal(t, uint64(11), receiveHeight(t, eventListener.CheckpointCh()))
		require.Equal(t, uint64(11), eventListener.LastProcessedHeight())

		require.NoError(t, eventListener.Close())

		cancel()
		require.ErrorIs(t, <-startErrCh, context.Canceled)
	})

	t.Run("watcher start failure", func(t *testing.T) {
		t.Parallel()

		connectErr := errors.New("dial refused")

		subscriptionMock := &NewBlockSubscriptionMock{}
		subscriptionMock.On("Connect", mock.Anything).Return(connectErr)
		subscriptionMock.On("Close").Return(error(nil))

		watcher := NewPushWatcher(&PushWatcherConfig{
			StartTries:   1,
			RestartDelay: time.Millisecond,
		}, subscriptionMock, hclog.NewNullLogger())

		eventListener := NewEventListener(newSequencer(&BlockEventsRetrieverMock{}),
			watcher, hclog.NewNullLogger())

		require.ErrorIs(t, eventListener.Start(context.Background()), connectErr)
	})
}
