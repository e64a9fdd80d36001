package sendtx

import (
	"strconv"

	"google.golang.org/protobuf/encoding/protowire"
)

// Minimal protobuf encoding of the handful of cosmos tx types needed to
// execute contract messages. Field numbers follow the cosmos-sdk and
// wasmd proto definitions.

const (
	msgExecuteContractTypeURL     = "/cosmwasm.wasm.v1.MsgExecuteContract"
	msgInstantiateContractTypeURL = "/cosmwasm.wasm.v1.MsgInstantiateContract"
	pubKeySecp256k1TypeURL        = "/cosmos.crypto.secp256k1.PubKey"

	signModeDirect = 1
)

type coin struct {
	Denom  string
	Amount uint64
}

func (c coin) encode() []byte {
	var result []byte

	result = protowire.AppendTag(result, 1, protowire.BytesType)
	result = protowire.AppendString(result, c.Denom)
	result = protowire.AppendTag(result, 2, protowire.BytesType)
	result = protowire.AppendString(result, strconv.FormatUint(c.Amount, 10))

	return result
}

func appendAnyField(buf []byte, fieldNum protowire.Number, typeURL string, value []byte) []byte {
	var anyBytes []byte

	anyBytes = protowire.AppendTag(anyBytes, 1, protowire.BytesType)
	anyBytes = protowire.AppendString(anyBytes, typeURL)
	anyBytes = protowire.AppendTag(anyBytes, 2, protowire.BytesType)
	anyBytes = protowire.AppendBytes(anyBytes, value)

	buf = protowire.AppendTag(buf, fieldNum, protowire.BytesType)

	return protowire.AppendBytes(buf, anyBytes)
}

// encodeMsgExecuteContract encodes a wasmd MsgExecuteContract,
// sender = 1, contract = 2, msg = 3, funds = 5
func encodeMsgExecuteContract(sender string, contract string, msg []byte, funds []coin) []byte {
	var result []byte

	result = protowire.AppendTag(result, 1, protowire.BytesType)
	result = protowire.AppendString(result, sender)
	result = protowire.AppendTag(result, 2, protowire.BytesType)
	result = protowire.AppendString(result, contract)
	result = protowire.AppendTag(result, 3, protowire.BytesType)
	result = protowire.AppendBytes(result, msg)

	for _, fund := range funds {
		result = protowire.AppendTag(result, 5, protowire.BytesType)
		result = protowire.AppendBytes(result, fund.encode())
	}

	return result
}

// encodeMsgInstantiateContract encodes a wasmd MsgInstantiateContract,
// sender = 1, admin = 2, code_id = 3, label = 4, msg = 5, funds = 6
func encodeMsgInstantiateContract(sender string, admin string, codeID uint64, label string, msg []byte) []byte {
	var result []byte

	result = protowire.AppendTag(result, 1, protowire.BytesType)
	result = protowire.AppendString(result, sender)

	if admin != "" {
		result = protowire.AppendTag(result, 2, protowire.BytesType)
		result = protowire.AppendString(result, admin)
	}

	result = protowire.AppendTag(result, 3, protowire.VarintType)
	result = protowire.AppendVarint(result, codeID)
	result = protowire.AppendTag(result, 4, protowire.BytesType)
	result = protowire.AppendString(result, label)
	result = protowire.AppendTag(result, 5, protowire.BytesType)
	result = protowire.AppendBytes(result, msg)

	return result
}

// encodeTxBody encodes a TxBody, messages = 1, memo = 2
func encodeTxBody(msgTypeURL string, msgBytes []byte, memo string) []byte {
	var result []byte

	result = appendAnyField(result, 1, msgTypeURL, msgBytes)

	if memo != "" {
		result = protowire.AppendTag(result, 2, protowire.BytesType)
		result = protowire.AppendString(result, memo)
	}

	return result
}

// encodeAuthInfo encodes an AuthInfo with a single direct-mode signer,
// signer_infos = 1, fee = 2
func encodeAuthInfo(pubKey []byte, sequence uint64, fee coin, gasLimit uint64) []byte {
	// PubKey, key = 1
	var pubKeyBytes []byte

	pubKeyBytes = protowire.AppendTag(pubKeyBytes, 1, protowire.BytesType)
	pubKeyBytes = protowire.AppendBytes(pubKeyBytes, pubKey)

	// ModeInfo.Single, mode = 1
	var modeSingle []byte

	modeSingle = protowire.AppendTag(modeSingle, 1, protowire.VarintType)
	modeSingle = protowire.AppendVarint(modeSingle, signModeDirect)

	// ModeInfo, single = 1
	var modeInfo []byte

	modeInfo = protowire.AppendTag(modeInfo, 1, protowire.BytesType)
	modeInfo = protowire.AppendBytes(modeInfo, modeSingle)

	// SignerInfo, public_key = 1, mode_info = 2, sequence = 3
	var signerInfo []byte

	signerInfo = appendAnyField(signerInfo, 1, pubKeySecp256k1TypeURL, pubKeyBytes)
	signerInfo = protowire.AppendTag(signerInfo, 2, protowire.BytesType)
	signerInfo = protowire.AppendBytes(signerInfo, modeInfo)
	signerInfo = protowire.AppendTag(signerInfo, 3, protowire.VarintType)
	signerInfo = protowire.AppendVarint(signerInfo, sequence)

	// Fee, amount = 1, gas_limit = 2
	var feeBytes []byte

	feeBytes = protowire.AppendTag(feeBytes, 1, protowire.BytesType)
	feeBytes = protowire.AppendBytes(feeBytes, fee.encode())
	feeBytes = protowire.AppendTag(feeBytes, 2, protowire.VarintType)
	feeBytes = protowire.AppendVarint(feeBytes, gasLimit)

	var result []byte

	result = protowire.AppendTag(result, 1, protowire.BytesType)
	result = protowire.AppendBytes(result, signerInfo)
	result = protowire.AppendTag(result, 2, protowire.BytesType)
	result = protowire.AppendBytes(result, feeBytes)

	return result
}

// encodeSignDoc encodes a SignDoc,
// body_bytes = 1, auth_info_bytes = 2, chain_id = 3, account_number = 4
func encodeSignDoc(bodyBytes []byte, authInfoBytes []byte, chainID string, accountNumber uint64) []byte {
	var result []byte

	result = protowire.AppendTag(result, 1, protowire.BytesType)
	result = protowire.AppendBytes(result, bodyBytes)
	result = protowire.AppendTag(result, 2, protowire.BytesType)
	result = protowire.AppendBytes(result, authInfoBytes)
	result = protowire.AppendTag(result, 3, protowire.BytesType)
	result = protowire.AppendString(result, chainID)
	result = protowire.AppendTag(result, 4, protowire.VarintType)
	result = protowire.AppendVarint(result, accountNumber)

	return result
}

// encodeTxRaw encodes a TxRaw,
// body_bytes = 1, auth_info_bytes = 2, signatures = 3
func encodeTxRaw(bodyBytes []byte, authInfoBytes []byte, signature []byte) []byte {
	var result []byte

	result = protowire.AppendTag(result, 1, protowire.BytesType)
	result = protowire.AppendBytes(result, bodyBytes)
	result = protowire.AppendTag(result, 2, protowire.BytesType)
	result = protowire.AppendBytes(result, authInfoBytes)
	result = protowire.AppendTag(result, 3, protowire.BytesType)
	result = protowire.AppendBytes(result, signature)

	return result
}
