package listenerbbolt

import (
	"encoding/binary"
	"fmt"

	core "github.com/fiamma-chain/cosmwasm-indexer/listener"
	"github.com/fxamacker/cbor/v2"
	"go.etcd.io/bbolt"
)

type BBoltDatabase struct {
	db *bbolt.DB
}

var (
	checkpointBucket        = []byte("Checkpoint")
	unprocessedEventsBucket = []byte("UnprocessedEvents")
	processedEventsBucket   = []byte("ProcessedEvents")

	defaultKey = []byte("default")
)

var _ core.Database = (*BBoltDatabase)(nil)

func (bd *BBoltDatabase) Init(filePath string) error {
	db, err := bbolt.Open(filePath, 0600, nil)
	if err != nil {
		return fmt.Errorf("could not open db: %w", err)
	}

	bd.db = db

	return db.Update(func(tx *bbolt.Tx) error {
		for _, bn := range [][]byte{checkpointBucket, unprocessedEventsBucket, processedEventsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bn); err != nil {
				return fmt.Errorf("could not create bucket %s: %w", string(bn), err)
			}
		}

		return nil
	})
}

func (bd *BBoltDatabase) Close() error {
	return bd.db.Close()
}

func (bd *BBoltDatabase) GetCheckpoint() (uint64, error) {
	var result uint64

	err := bd.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(checkpointBucket).Get(defaultKey); len(data) == 8 {
			result = binary.BigEndian.Uint64(data)
		}

		return nil
	})

	return result, err
}

func (bd *BBoltDatabase) GetUnprocessedBlockEvents(maxCnt int) ([]*core.BlockEvents, error) {
	var result []*core.BlockEvents

	err := bd.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(unprocessedEventsBucket).Cursor()

		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var block *core.BlockEvents

			if err := cbor.Unmarshal(v, &block); err != nil {
				return err
			}

			result = append(result, block)
			if maxCnt > 0 && len(result) == maxCnt {
				break
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (bd *BBoltDatabase) MarkBlockEventsProcessed(blocks []*core.BlockEvents) error {
	return bd.db.Update(func(tx *bbolt.Tx) error {
		for _, block := range blocks {
			if err := tx.Bucket(unprocessedEventsBucket).Delete(block.Key()); err != nil {
				return fmt.Errorf("could not remove from unprocessed events: %w", err)
			}

			bytes, err := cbor.Marshal(block)
			if err != nil {
				return fmt.Errorf("could not marshal block events: %w", err)
			}

			if err := tx.Bucket(processedEventsBucket).Put(block.Key(), bytes); err != nil {
				return fmt.Errorf("could not move to processed events: %w", err)
			}
		}

		return nil
	})
}

func (bd *BBoltDatabase) OpenTx() core.DBTransactionWriter {
	return &BBoltTransactionWriter{
		db: bd.db,
	}
}
