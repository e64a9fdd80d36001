package sendtx

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/fiamma-chain/cosmwasm-indexer/chain"
	"github.com/fiamma-chain/cosmwasm-indexer/wallet"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testPrivateKeyHex = "8da4ef21b864d2cc526dbdb2a120bd2874c36c9d0a1fb7f8c63d7f7a8b41de8f"

func newTestSender(t *testing.T, clientMock *ChainClientMock) *TxSender {
	t.Helper()

	testWallet, err := wallet.NewWallet(testPrivateKeyHex, "fiamma")
	require.NoError(t, err)

	sender, err := NewTxSender(&ChainConfig{
		ChainID:         "fiamma-1",
		AccountPrefix:   "fiamma",
		Denom:           "ufia",
		ContractAddress: "fiamma1contract",
	}, clientMock, testWallet, hclog.NewNullLogger())
	require.NoError(t, err)

	return sender
}

func TestTxSender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("peg in builds a valid signed tx", func(t *testing.T) {
		t.Parallel()

		var broadcastTx []byte

		clientMock := &ChainClientMock{}
		clientMock.On("ABCIQuery", ctx, queryAccountPath, mock.Anything).Return(&chain.ABCIResponse{
			Value: encodeAccountResponse("fiamma1sender", 7, 11),
		}, error(nil)).Once()
		clientMock.On("BroadcastTxSync", ctx, mock.Anything).Return(&chain.BroadcastTxResult{
			Code: 0,
			Hash: "CAFEBABE",
		}, error(nil)).Once()
		clientMock.BroadcastTxSyncFn = func(_ context.Context, tx []byte) (*chain.BroadcastTxResult, error) {
			broadcastTx = tx

			return &chain.BroadcastTxResult{Code: 0, Hash: "CAFEBABE"}, nil
		}

		sender := newTestSender(t, clientMock)

		hash, err := sender.PegIn(ctx, "fiamma1receiver", 25000)
		require.NoError(t, err)
		require.Equal(t, "CAFEBABE", hash)

		// decode the TxRaw and check the executed message
		bodyBytes, err := consumeBytesField(broadcastTx, 1)
		require.NoError(t, err)

		anyField, err := consumeBytesField(bodyBytes, 1)
		require.NoError(t, err)
		require.Equal(t, msgExecuteContractTypeURL, consumeStringField(t, anyField, 1))

		msgBytes, err := consumeBytesField(anyField, 2)
		require.NoError(t, err)
		require.Equal(t, "fiamma1contract", consumeStringField(t, msgBytes, 2))

		executeMsg, err := consumeBytesField(msgBytes, 3)
		require.NoError(t, err)

		var pegIn PegInMsg

		require.NoError(t, json.Unmarshal(executeMsg, &pegIn))
		require.Equal(t, "fiamma1receiver", pegIn.PegIn.ReceiverAddress)
		require.Equal(t, uint64(25000), pegIn.PegIn.Amount)

		// the signature must cover the sign doc rebuilt from the tx parts
		authInfoBytes, err := consumeBytesField(broadcastTx, 2)
		require.NoError(t, err)

		signature, err := consumeBytesField(broadcastTx, 3)
		require.NoError(t, err)
		require.Len(t, signature, 64)

		signDoc := encodeSignDoc(bodyBytes, authInfoBytes, "fiamma-1", 7)
		digest := sha256.Sum256(signDoc)

		var r, s secp256k1.ModNScalar

		require.False(t, r.SetByteSlice(signature[:32]))
		require.False(t, s.SetByteSlice(signature[32:]))

		testWallet, err := wallet.NewWallet(testPrivateKeyHex, "fiamma")
		require.NoError(t, err)

		pubKey, err := secp256k1.ParsePubKey(testWallet.PubKeyBytes())
		require.NoError(t, err)
		require.True(t, secpecdsa.NewSignature(&r, &s).Verify(digest[:], pubKey))
	})

	t.Run("peg out has no attached funds", func(t *testing.T) {
		t.Parallel()

		var broadcastTx []byte

		clientMock := &ChainClientMock{}
		clientMock.On("ABCIQuery", ctx, queryAccountPath, mock.Anything).Return(&chain.ABCIResponse{
			Value: encodeAccountResponse("fiamma1sender", 7, 11),
		}, error(nil)).Once()
		clientMock.On("BroadcastTxSync", ctx, mock.Anything).Return(&chain.BroadcastTxResult{
			Hash: "AA",
		}, error(nil)).Once()
		clientMock.BroadcastTxSyncFn = func(_ context.Context, tx []byte) (*chain.BroadcastTxResult, error) {
			broadcastTx = tx

			return &chain.BroadcastTxResult{Hash: "AA"}, nil
		}

		sender := newTestSender(t, clientMock)

		_, err := sender.PegOut(ctx, 500, "bc1qaddress", "02aabbcc")
		require.NoError(t, err)

		bodyBytes, err := consumeBytesField(broadcastTx, 1)
		require.NoError(t, err)

		anyField, err := consumeBytesField(bodyBytes, 1)
		require.NoError(t, err)

		msgBytes, err := consumeBytesField(anyField, 2)
		require.NoError(t, err)

		_, err = consumeBytesField(msgBytes, 5)
		require.Error(t, err, "funds field should be absent")
	})

	t.Run("rejected tx", func(t *testing.T) {
		t.Parallel()

		clientMock := &ChainClientMock{}
		clientMock.On("ABCIQuery", ctx, queryAccountPath, mock.Anything).Return(&chain.ABCIResponse{
			Value: encodeAccountResponse("fiamma1sender", 7, 11),
		}, error(nil)).Once()
		clientMock.On("BroadcastTxSync", ctx, mock.Anything).Return(&chain.BroadcastTxResult{
			Code: 13,
			Log:  "insufficient fee",
		}, error(nil)).Once()

		sender := newTestSender(t, clientMock)

		_, err := sender.PegIn(ctx, "fiamma1receiver", 1)
		require.ErrorContains(t, err, "insufficient fee")
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		_, err := NewTxSender(&ChainConfig{}, &ChainClientMock{}, nil, hclog.NewNullLogger())
		require.ErrorContains(t, err, "chain id")
	})
}
