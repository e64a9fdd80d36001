package listener

// Database persists the listener checkpoint and the extracted block events
// until a consumer marks them processed
type Database interface {
	Init(filePath string) error
	Close() error

	GetCheckpoint() (uint64, error)
	GetUnprocessedBlockEvents(maxCnt int) ([]*BlockEvents, error)
	MarkBlockEventsProcessed(blocks []*BlockEvents) error

	OpenTx() DBTransactionWriter
}

// DBTransactionWriter collects write operations and applies them atomically
// on Execute
type DBTransactionWriter interface {
	SetCheckpoint(height uint64) DBTransactionWriter
	AddBlockEvents(block *BlockEvents) DBTransactionWriter
	Execute() error
}
