package listenerbbolt

import (
	"math/big"
	"path/filepath"
	"testing"

	core "github.com/fiamma-chain/cosmwasm-indexer/listener"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *BBoltDatabase {
	t.Helper()

	db := &BBoltDatabase{}
	require.NoError(t, db.Init(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func blockEventsAt(height uint64) *core.BlockEvents {
	return &core.BlockEvents{
		Height: height,
		Events: []core.TxContractEvent{
			{
				TxHash: "hash",
				Event: &core.PegInEvent{
					MsgIndex: 0,
					Receiver: "fiamma1receiver",
					Amount:   big.NewInt(int64(height) * 10),
				},
			},
		},
	}
}

func TestBBoltDatabase(t *testing.T) {
	t.Parallel()

	t.Run("checkpoint roundtrip", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)

		checkpoint, err := db.GetCheckpoint()
		require.NoError(t, err)
		require.Equal(t, uint64(0), checkpoint)

		require.NoError(t, db.OpenTx().SetCheckpoint(42).Execute())

		checkpoint, err = db.GetCheckpoint()
		require.NoError(t, err)
		require.Equal(t, uint64(42), checkpoint)
	})

	t.Run("unprocessed block events ordered by height", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)

		require.NoError(t, db.OpenTx().
			AddBlockEvents(blockEventsAt(300)).
			AddBlockEvents(blockEventsAt(2)).
			AddBlockEvents(blockEventsAt(256)).
			SetCheckpoint(300).
			Execute())

		blocks, err := db.GetUnprocessedBlockEvents(0)
		require.NoError(t, err)
		require.Len(t, blocks, 3)
		require.Equal(t, uint64(2), blocks[0].Height)
		require.Equal(t, uint64(256), blocks[1].Height)
		require.Equal(t, uint64(300), blocks[2].Height)

		require.Equal(t, blockEventsAt(2), blocks[0])
	})

	t.Run("max count limits the result", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)

		require.NoError(t, db.OpenTx().
			AddBlockEvents(blockEventsAt(1)).
			AddBlockEvents(blockEventsAt(2)).
			AddBlockEvents(blockEventsAt(3)).
			Execute())

		blocks, err := db.GetUnprocessedBlockEvents(2)
		require.NoError(t, err)
		require.Len(t, blocks, 2)
		require.Equal(t, uint64(1), blocks[0].Height)
	})

	t.Run("mark processed removes from unprocessed", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)

		require.NoError(t, db.OpenTx().
			AddBlockEvents(blockEventsAt(5)).
			AddBlockEvents(blockEventsAt(6)).
			Execute())

		blocks, err := db.GetUnprocessedBlockEvents(1)
		require.NoError(t, err)
		require.NoError(t, db.MarkBlockEventsProcessed(blocks))

		remaining, err := db.GetUnprocessedBlockEvents(0)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		require.Equal(t, uint64(6), remaining[0].Height)
	})

	t.Run("execute clears pending operations", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)

		tx := db.OpenTx()
		require.NoError(t, tx.AddBlockEvents(blockEventsAt(9)).Execute())
		require.NoError(t, tx.Execute())

		blocks, err := db.GetUnprocessedBlockEvents(0)
		require.NoError(t, err)
		require.Len(t, blocks, 1)
	})
}
