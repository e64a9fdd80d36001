package listenerleveldb

import (
	"encoding/binary"
	"errors"
	"fmt"

	core "github.com/fiamma-chain/cosmwasm-indexer/listener"
	"github.com/fxamacker/cbor/v2"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type LevelDBDatabase struct {
	db *leveldb.DB
}

var (
	checkpointBucket        = []byte("P1_")
	unprocessedEventsBucket = []byte("P2_")
	processedEventsBucket   = []byte("P3_")
)

var _ core.Database = (*LevelDBDatabase)(nil)

func (lvldb *LevelDBDatabase) Init(filePath string) error {
	db, err := leveldb.OpenFile(filePath, nil)
	if err != nil {
		return fmt.Errorf("could not open db: %w", err)
	}

	lvldb.db = db

	return nil
}

func (lvldb *LevelDBDatabase) Close() error {
	return lvldb.db.Close()
}

func (lvldb *LevelDBDatabase) GetCheckpoint() (uint64, error) {
	bytes, err := lvldb.db.Get(checkpointBucket, nil)
	if err != nil {
		return 0, processNotFoundErr(err)
	}

	if len(bytes) != 8 {
		return 0, fmt.Errorf("malformed checkpoint value of length %d", len(bytes))
	}

	return binary.BigEndian.Uint64(bytes), nil
}

func (lvldb *LevelDBDatabase) GetUnprocessedBlockEvents(maxCnt int) ([]*core.BlockEvents, error) {
	var result []*core.BlockEvents

	iter := lvldb.db.NewIterator(util.BytesPrefix(unprocessedEventsBucket), nil)
	defer iter.Release()

	for iter.Next() {
		var block *core.BlockEvents

		if err := cbor.Unmarshal(iter.Value(), &block); err != nil {
			return nil, err
		}

		result = append(result, block)
		if maxCnt > 0 && len(result) == maxCnt {
			break
		}
	}

	return result, iter.Error()
}

func (lvldb *LevelDBDatabase) MarkBlockEventsProcessed(blocks []*core.BlockEvents) error {
	batch := new(leveldb.Batch)

	for _, block := range blocks {
		bytes, err := cbor.Marshal(block)
		if err != nil {
			return fmt.Errorf("could not marshal block events: %w", err)
		}

		batch.Put(bucketKey(processedEventsBucket, block.Key()), bytes)
		batch.Delete(bucketKey(unprocessedEventsBucket, block.Key()))
	}

	return lvldb.db.Write(batch, &opt.WriteOptions{
		NoWriteMerge: false,
		Sync:         true,
	})
}

func (lvldb *LevelDBDatabase) OpenTx() core.DBTransactionWriter {
	return NewLevelDBTransactionWriter(lvldb.db)
}

func bucketKey(bucket []byte, key []byte) []byte {
	outputKey := make([]byte, len(bucket)+len(key))
	copy(outputKey, bucket)
	copy(outputKey[len(bucket):], key)

	return outputKey
}

func processNotFoundErr(err error) error {
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil
	}

	return err
}
