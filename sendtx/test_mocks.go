package sendtx

import (
	"context"

	"github.com/fiamma-chain/cosmwasm-indexer/chain"
	"github.com/stretchr/testify/mock"
)

type ChainClientMock struct {
	mock.Mock
	StatusFn          func(ctx context.Context) (*chain.Status, error)
	BlockFn           func(ctx context.Context, height uint64) (*chain.Block, error)
	BlockResultsFn    func(ctx context.Context, height uint64) (*chain.BlockResults, error)
	BroadcastTxSyncFn func(ctx context.Context, tx []byte) (*chain.BroadcastTxResult, error)
	ABCIQueryFn       func(ctx context.Context, path string, data []byte) (*chain.ABCIResponse, error)
}

// Status implements chain.Client.
func (m *ChainClientMock) Status(ctx context.Context) (*chain.Status, error) {
	args := m.Called(ctx)

	if m.StatusFn != nil {
		return m.StatusFn(ctx)
	}

	return args.Get(0).(*chain.Status), args.Error(1) //nolint:forcetypeassert
}

// Block implements chain.Client.
func (m *ChainClientMock) Block(ctx context.Context, height uint64) (*chain.Block, error) {
	args := m.Called(ctx, height)

	if m.BlockFn != nil {
		return m.BlockFn(ctx, height)
	}

	return args.Get(0).(*chain.Block), args.Error(1) //nolint:forcetypeassert
}

// BlockResults implements chain.Client.
func (m *ChainClientMock) BlockResults(ctx context.Context, height uint64) (*chain.BlockResults, error) {
	args := m.Called(ctx, height)

	if m.BlockResultsFn != nil {
		return m.BlockResultsFn(ctx, height)
	}

	return args.Get(0).(*chain.BlockResults), args.Error(1) //nolint:forcetypeassert
}

// BroadcastTxSync implements chain.Client.
func (m *ChainClientMock) BroadcastTxSync(ctx context.Context, tx []byte) (*chain.BroadcastTxResult, error) {
	args := m.Called(ctx, tx)

	if m.BroadcastTxSyncFn != nil {
		return m.BroadcastTxSyncFn(ctx, tx)
	}

	return args.Get(0).(*chain.BroadcastTxResult), args.Error(1) //nolint:forcetypeassert
}

// ABCIQuery implements chain.Client.
func (m *ChainClientMock) ABCIQuery(ctx context.Context, path string, data []byte) (*chain.ABCIResponse, error) {
	args := m.Called(ctx, path, data)

	if m.ABCIQueryFn != nil {
		return m.ABCIQueryFn(ctx, path, data)
	}

	return args.Get(0).(*chain.ABCIResponse), args.Error(1) //nolint:forcetypeassert
}

var _ chain.Client = (*ChainClientMock)(nil)
