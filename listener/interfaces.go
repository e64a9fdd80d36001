package listener

import (
	"context"

	"github.com/fiamma-chain/cosmwasm-indexer/chain"
)

type Closable interface {
	Close() error
}

// HeightWatcher publishes latest committed block heights observed on the
// chain. Implementations may drop intermediate heights, the consumer only
// needs the most recent one.
type HeightWatcher interface {
	Closable
	Start() error
	HeightCh() <-chan uint64
	ErrorCh() <-chan error
}

// TxEvents are all events emitted by a single transaction
type TxEvents struct {
	TxHash string
	Events []chain.Event
}

// BlockEventsRetriever fetches the transactions of a block together with
// their execution events, in commit order
type BlockEventsRetriever interface {
	GetBlockEvents(ctx context.Context, height uint64) ([]TxEvents, error)
}

type ChainReader interface {
	Block(ctx context.Context, height uint64) (*chain.Block, error)
	BlockResults(ctx context.Context, height uint64) (*chain.BlockResults, error)
}

type ChainStatusReader interface {
	Status(ctx context.Context) (*chain.Status, error)
}

// ProgressTracker reports the highest block height fully processed so far
type ProgressTracker interface {
	LastProcessedHeight() uint64
}
