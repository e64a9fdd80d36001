package db

import (
	"fmt"

	"github.com/fiamma-chain/cosmwasm-indexer/listener"
	listenerbbolt "github.com/fiamma-chain/cosmwasm-indexer/listener/db/bbolt"
	listenerleveldb "github.com/fiamma-chain/cosmwasm-indexer/listener/db/leveldb"
)

// NewDatabaseInit creates and initializes a listener database of the given
// kind. Supported names are "bbolt" (the default) and "leveldb".
func NewDatabaseInit(name string, filePath string) (listener.Database, error) {
	var db listener.Database

	switch name {
	case "", "bbolt":
		db = &listenerbbolt.BBoltDatabase{}
	case "leveldb":
		db = &listenerleveldb.LevelDBDatabase{}
	default:
		return nil, fmt.Errorf("unknown database name: %s", name)
	}

	if err := db.Init(filePath); err != nil {
		return nil, err
	}

	return db, nil
}
