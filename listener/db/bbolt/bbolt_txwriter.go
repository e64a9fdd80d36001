package listenerbbolt

import (
	"fmt"

	core "github.com/fiamma-chain/cosmwasm-indexer/listener"
	"github.com/fxamacker/cbor/v2"
	"go.etcd.io/bbolt"
)

type txOperation func(tx *bbolt.Tx) error

type BBoltTransactionWriter struct {
	db         *bbolt.DB
	operations []txOperation
}

var _ core.DBTransactionWriter = (*BBoltTransactionWriter)(nil)

func (tw *BBoltTransactionWriter) SetCheckpoint(height uint64) core.DBTransactionWriter {
	tw.operations = append(tw.operations, func(tx *bbolt.Tx) error {
		if err := tx.Bucket(checkpointBucket).Put(defaultKey, core.EncodeUint64ToBytes(height)); err != nil {
			return fmt.Errorf("checkpoint write error: %w", err)
		}

		return nil
	})

	return tw
}

func (tw *BBoltTransactionWriter) AddBlockEvents(block *core.BlockEvents) core.DBTransactionWriter {
	tw.operations = append(tw.operations, func(tx *bbolt.Tx) error {
		bytes, err := cbor.Marshal(block)
		if err != nil {
			return fmt.Errorf("could not marshal block events: %w", err)
		}

		if err := tx.Bucket(unprocessedEventsBucket).Put(block.Key(), bytes); err != nil {
			return fmt.Errorf("block events write error: %w", err)
		}

		return nil
	})

	return tw
}

func (tw *BBoltTransactionWriter) Execute() error {
	defer func() {
		tw.operations = nil
	}()

	return tw.db.Update(func(tx *bbolt.Tx) error {
		for _, op := range tw.operations {
			if err := op(tx); err != nil {
				return err
			}
		}

		return nil
	})
}
