package listener

import (
	"context"

	"github.com/fiamma-chain/cosmwasm-indexer/chain"
	"github.com/stretchr/testify/mock"
)

type ChainReaderMock struct {
	mock.Mock
	BlockFn        func(ctx context.Context, height uint64) (*chain.Block, error)
	BlockResultsFn func(ctx context.Context, height uint64) (*chain.BlockResults, error)
}

// Block implements ChainReader.
func (m *ChainReaderMock) Block(ctx context.Context, height uint64) (*chain.Block, error) {
	args := m.Called(ctx, height)

	if m.BlockFn != nil {
		return m.BlockFn(ctx, height)
	}

	return args.Get(0).(*chain.Block), args.Error(1) //nolint:forcetypeassert
}

// BlockResults implements ChainReader.
func (m *ChainReaderMock) BlockResults(ctx context.Context, height uint64) (*chain.BlockResults, error) {
	args := m.Called(ctx, height)

	if m.BlockResultsFn != nil {
		return m.BlockResultsFn(ctx, height)
	}

	return args.Get(0).(*chain.BlockResults), args.Error(1) //nolint:forcetypeassert
}

var _ ChainReader = (*ChainReaderMock)(nil)

type ChainStatusReaderMock struct {
	mock.Mock
	StatusFn func(ctx context.Context) (*chain.Status, error)
}

// Status implements ChainStatusReader.
func (m *ChainStatusReaderMock) Status(ctx context.Context) (*chain.Status, error) {
	args := m.Called(ctx)

	if m.StatusFn != nil {
		return m.StatusFn(ctx)
	}

	return args.Get(0).(*chain.Status), args.Error(1) //nolint:forcetypeassert
}

var _ ChainStatusReader = (*ChainStatusReaderMock)(nil)

type BlockEventsRetrieverMock struct {
	mock.Mock
	GetBlockEventsFn func(ctx context.Context, height uint64) ([]TxEvents, error)
}

// GetBlockEvents implements BlockEventsRetriever.
func (m *BlockEventsRetrieverMock) GetBlockEvents(ctx context.Context, height uint64) ([]TxEvents, error) {
	args := m.Called(ctx, height)

	if m.GetBlockEventsFn != nil {
		return m.GetBlockEventsFn(ctx, height)
	}

	return args.Get(0).([]TxEvents), args.Error(1) //nolint:forcetypeassert
}

var _ BlockEventsRetriever = (*BlockEventsRetrieverMock)(nil)

type NewBlockSubscriptionMock struct {
	mock.Mock
	ConnectFn    func(ctx context.Context) error
	ReadHeightFn func() (uint64, error)
	CloseFn      func() error
}

// Connect implements NewBlockSubscription.
func (m *NewBlockSubscriptionMock) Connect(ctx context.Context) error {
	args := m.Called(ctx)

	if m.ConnectFn != nil {
		return m.ConnectFn(ctx)
	}

	return args.Error(0)
}

// ReadHeight implements NewBlockSubscription.
func (m *NewBlockSubscriptionMock) ReadHeight() (uint64, error) {
	args := m.Called()

	if m.ReadHeightFn != nil {
		return m.ReadHeightFn()
	}

	return args.Get(0).(uint64), args.Error(1) //nolint:forcetypeassert
}

// Close implements NewBlockSubscription.
func (m *NewBlockSubscriptionMock) Close() error {
	args := m.Called()

	if m.CloseFn != nil {
		return m.CloseFn()
	}

	return args.Error(0)
}

var _ NewBlockSubscription = (*NewBlockSubscriptionMock)(nil)

type progressTrackerMock struct {
	height uint64
}

// LastProcessedHeight implements ProgressTracker.
func (m *progressTrackerMock) LastProcessedHeight() uint64 {
	return m.height
}

var _ ProgressTracker = (*progressTrackerMock)(nil)
