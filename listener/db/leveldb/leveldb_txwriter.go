package listenerleveldb

import (
	"fmt"

	core "github.com/fiamma-chain/cosmwasm-indexer/listener"
	"github.com/fxamacker/cbor/v2"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

type txOperation func(db *leveldb.DB, batch *leveldb.Batch) error

type LevelDBTransactionWriter struct {
	db         *leveldb.DB
	operations []txOperation
}

var _ core.DBTransactionWriter = (*LevelDBTransactionWriter)(nil)

func NewLevelDBTransactionWriter(db *leveldb.DB) *LevelDBTransactionWriter {
	return &LevelDBTransactionWriter{
		db: db,
	}
}

func (tw *LevelDBTransactionWriter) SetCheckpoint(height uint64) core.DBTransactionWriter {
	tw.operations = append(tw.operations, func(db *leveldb.DB, batch *leveldb.Batch) error {
		batch.Put(checkpointBucket, core.EncodeUint64ToBytes(height))

		return nil
	})

	return tw
}

func (tw *LevelDBTransactionWriter) AddBlockEvents(block *core.BlockEvents) core.DBTransactionWriter {
	tw.operations = append(tw.operations, func(db *leveldb.DB, batch *leveldb.Batch) error {
		bytes, err := cbor.Marshal(block)
		if err != nil {
			return fmt.Errorf("could not marshal block events: %w", err)
		}

		batch.Put(bucketKey(unprocessedEventsBucket, block.Key()), bytes)

		return nil
	})

	return tw
}

func (tw *LevelDBTransactionWriter) Execute() error {
	defer func() {
		tw.operations = nil
	}()

	batch := new(leveldb.Batch)

	for _, op := range tw.operations {
		if err := op(tw.db, batch); err != nil {
			return err
		}
	}

	return tw.db.Write(batch, &opt.WriteOptions{
		NoWriteMerge: false,
		Sync:         true,
	})
}
