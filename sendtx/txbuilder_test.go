package sendtx

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func consumeStringField(t *testing.T, data []byte, fieldNum protowire.Number) string {
	t.Helper()

	value, err := consumeBytesField(data, fieldNum)
	require.NoError(t, err)

	return string(value)
}

func TestEncodeMsgExecuteContract(t *testing.T) {
	t.Parallel()

	msg := []byte(`{"peg_in":{}}`)
	encoded := encodeMsgExecuteContract("fiamma1sender", "fiamma1contract", msg,
		[]coin{{Denom: "ufia", Amount: 250}})

	require.Equal(t, "fiamma1sender", consumeStringField(t, encoded, 1))
	require.Equal(t, "fiamma1contract", consumeStringField(t, encoded, 2))

	msgField, err := consumeBytesField(encoded, 3)
	require.NoError(t, err)
	require.Equal(t, msg, msgField)

	fundsField, err := consumeBytesField(encoded, 5)
	require.NoError(t, err)
	require.Equal(t, "ufia", consumeStringField(t, fundsField, 1))
	require.Equal(t, "250", consumeStringField(t, fundsField, 2))
}

func TestEncodeMsgInstantiateContract(t *testing.T) {
	t.Parallel()

	encoded := encodeMsgInstantiateContract("fiamma1sender", "", 7, "btc-bridge", []byte(`{}`))

	require.Equal(t, "fiamma1sender", consumeStringField(t, encoded, 1))
	require.Equal(t, "btc-bridge", consumeStringField(t, encoded, 4))

	// admin is omitted when empty
	_, err := consumeBytesField(encoded, 2)
	require.Error(t, err)
}

func TestEncodeTxBody(t *testing.T) {
	t.Parallel()

	msgBytes := []byte{0x0a, 0x01, 0x61}
	encoded := encodeTxBody(msgExecuteContractTypeURL, msgBytes, "")

	anyField, err := consumeBytesField(encoded, 1)
	require.NoError(t, err)
	require.Equal(t, msgExecuteContractTypeURL, consumeStringField(t, anyField, 1))

	value, err := consumeBytesField(anyField, 2)
	require.NoError(t, err)
	require.Equal(t, msgBytes, value)
}

func TestEncodeAuthInfo(t *testing.T) {
	t.Parallel()

	pubKey := []byte{0x02, 0xaa, 0xbb}
	encoded := encodeAuthInfo(pubKey, 9, coin{Denom: "ufia", Amount: 3000}, 200_000)

	signerInfo, err := consumeBytesField(encoded, 1)
	require.NoError(t, err)

	pubKeyAny, err := consumeBytesField(signerInfo, 1)
	require.NoError(t, err)
	require.Equal(t, pubKeySecp256k1TypeURL, consumeStringField(t, pubKeyAny, 1))

	feeBytes, err := consumeBytesField(encoded, 2)
	require.NoError(t, err)

	feeCoin, err := consumeBytesField(feeBytes, 1)
	require.NoError(t, err)
	require.Equal(t, "3000", consumeStringField(t, feeCoin, 2))
}

func TestEncodeSignDocAndTxRaw(t *testing.T) {
	t.Parallel()

	body := []byte{0x01}
	authInfo := []byte{0x02}

	signDoc := encodeSignDoc(body, authInfo, "fiamma-1", 33)
	require.Equal(t, "fiamma-1", consumeStringField(t, signDoc, 3))

	txRaw := encodeTxRaw(body, authInfo, []byte{0xff})

	bodyField, err := consumeBytesField(txRaw, 1)
	require.NoError(t, err)
	require.Equal(t, body, bodyField)

	signature, err := consumeBytesField(txRaw, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{0xff}, signature)
}
