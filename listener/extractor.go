package listener

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/fiamma-chain/cosmwasm-indexer/chain"
)

const (
	wasmEventType = "wasm"

	attrContractAddress = "_contract_address"
	attrAction          = "action"
	attrMsgIndex        = "msg_index"
	attrAmount          = "amount"
	attrReceiver        = "receiver"
	attrSender          = "sender"
	attrBtcAddress      = "btc_address"
	attrOperatorBtcPk   = "operator_btc_pk"
	attrFeeRate         = "fee_rate"

	maxAmountBits = 128
)

// EventParser decodes bridge contract events out of raw wasm execution events
type EventParser struct {
	contractAddress string
}

func NewEventParser(contractAddress string) *EventParser {
	return &EventParser{
		contractAddress: contractAddress,
	}
}

// ParseContractEvent decodes a single execution event. Events that are not
// wasm events of the watched contract, or whose action is not a bridge
// operation, are skipped with a nil result. A recognized event with malformed
// attributes is an error.
func (p *EventParser) ParseContractEvent(event chain.Event) (ContractEvent, error) {
	if event.Type != wasmEventType {
		return nil, nil
	}

	// later occurrences of a key win
	attrs := make(map[string]string, len(event.Attributes))
	for _, attr := range event.Attributes {
		attrs[attr.Key] = attr.Value
	}

	if attrs[attrContractAddress] != p.contractAddress {
		return nil, nil
	}

	switch attrs[attrAction] {
	case ActionPegIn:
		return parsePegInEvent(attrs)
	case ActionPegOut:
		return parsePegOutEvent(attrs)
	default:
		return nil, nil
	}
}

func parsePegInEvent(attrs map[string]string) (*PegInEvent, error) {
	msgIndex, err := parseMsgIndex(attrs)
	if err != nil {
		return nil, err
	}

	receiver, exists := attrs[attrReceiver]
	if !exists || receiver == "" {
		return nil, fmt.Errorf("%s event without a receiver", ActionPegIn)
	}

	amount, err := parseAmount(attrs)
	if err != nil {
		return nil, err
	}

	return &PegInEvent{
		MsgIndex: msgIndex,
		Receiver: receiver,
		Amount:   amount,
	}, nil
}

func parsePegOutEvent(attrs map[string]string) (*PegOutEvent, error) {
	msgIndex, err := parseMsgIndex(attrs)
	if err != nil {
		return nil, err
	}

	for _, key := range []string{attrSender, attrBtcAddress, attrOperatorBtcPk} {
		if attrs[key] == "" {
			return nil, fmt.Errorf("%s event without a %s", ActionPegOut, key)
		}
	}

	amount, err := parseAmount(attrs)
	if err != nil {
		return nil, err
	}

	result := &PegOutEvent{
		MsgIndex:      msgIndex,
		Sender:        attrs[attrSender],
		BtcAddress:    attrs[attrBtcAddress],
		OperatorBtcPk: attrs[attrOperatorBtcPk],
		Amount:        amount,
	}

	if value, exists := attrs[attrFeeRate]; exists {
		feeRate, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", attrFeeRate, value, err)
		}

		result.FeeRate = &feeRate
	}

	return result, nil
}

func parseMsgIndex(attrs map[string]string) (uint32, error) {
	value, exists := attrs[attrMsgIndex]
	if !exists {
		return 0, fmt.Errorf("event without a %s", attrMsgIndex)
	}

	msgIndex, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", attrMsgIndex, value, err)
	}

	return uint32(msgIndex), nil
}

func parseAmount(attrs map[string]string) (*big.Int, error) {
	value, exists := attrs[attrAmount]
	if !exists {
		return nil, fmt.Errorf("event without an %s", attrAmount)
	}

	amount, ok := new(big.Int).SetString(value, 10)
	if !ok || amount.Sign() < 0 || amount.BitLen() > maxAmountBits {
		return nil, fmt.Errorf("invalid %s value %q", attrAmount, value)
	}

	return amount, nil
}
