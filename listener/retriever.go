package listener

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ErrTxResultsMismatch is returned when the node reports a different number of
// execution results than the block has transactions
var ErrTxResultsMismatch = errors.New("block txs and txs results count mismatch")

type blockEventsRetriever struct {
	reader ChainReader
	logger hclog.Logger
}

var _ BlockEventsRetriever = (*blockEventsRetriever)(nil)

func NewBlockEventsRetriever(reader ChainReader, logger hclog.Logger) BlockEventsRetriever {
	return &blockEventsRetriever{
		reader: reader,
		logger: logger,
	}
}

// GetBlockEvents fetches the block and its execution results and pairs each
// transaction hash with the events its execution emitted, in commit order
func (r *blockEventsRetriever) GetBlockEvents(ctx context.Context, height uint64) ([]TxEvents, error) {
	block, err := r.reader.Block(ctx, height)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch block %d: %w", height, err)
	}

	rawTxs, err := block.RawTxs()
	if err != nil {
		return nil, fmt.Errorf("failed to decode txs of block %d: %w", height, err)
	}

	if len(rawTxs) == 0 {
		return nil, nil
	}

	results, err := r.reader.BlockResults(ctx, height)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch block results %d: %w", height, err)
	}

	if len(results.TxsResults) != len(rawTxs) {
		return nil, fmt.Errorf("%w: height = %d, txs = %d, results = %d",
			ErrTxResultsMismatch, height, len(rawTxs), len(results.TxsResults))
	}

	txEvents := make([]TxEvents, len(rawTxs))

	for i, raw := range rawTxs {
		result := results.TxsResults[i]
		txEvents[i] = TxEvents{
			TxHash: TxHash(raw),
		}

		if result.Code != 0 {
			r.logger.Debug("Skipping events of failed transaction",
				"height", height, "tx", txEvents[i].TxHash, "code", result.Code)

			continue
		}

		txEvents[i].Events = result.Events
	}

	return txEvents, nil
}
