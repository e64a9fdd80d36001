package listener

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

const (
	ActionPegIn  = "peg_in"
	ActionPegOut = "peg_out"
)

// TxHash computes the canonical transaction hash of the raw committed
// transaction bytes, lowercase hex encoded
func TxHash(tx []byte) string {
	hash := sha256.Sum256(tx)

	return hex.EncodeToString(hash[:])
}

// ContractEvent is a single decoded bridge contract event
type ContractEvent interface {
	Action() string
}

type PegInEvent struct {
	MsgIndex uint32   `cbor:"1,keyasint"`
	Receiver string   `cbor:"2,keyasint"`
	Amount   *big.Int `cbor:"3,keyasint"`
}

func (e *PegInEvent) Action() string {
	return ActionPegIn
}

func (e *PegInEvent) String() string {
	return fmt.Sprintf("peg_in msg_index = %d, receiver = %s, amount = %s",
		e.MsgIndex, e.Receiver, e.Amount)
}

type PegOutEvent struct {
	MsgIndex      uint32   `cbor:"1,keyasint"`
	Sender        string   `cbor:"2,keyasint"`
	BtcAddress    string   `cbor:"3,keyasint"`
	OperatorBtcPk string   `cbor:"4,keyasint"`
	Amount        *big.Int `cbor:"5,keyasint"`
	FeeRate       *uint64  `cbor:"6,keyasint,omitempty"`
}

func (e *PegOutEvent) Action() string {
	return ActionPegOut
}

func (e *PegOutEvent) String() string {
	return fmt.Sprintf("peg_out msg_index = %d, sender = %s, btc_address = %s, amount = %s",
		e.MsgIndex, e.Sender, e.BtcAddress, e.Amount)
}

// TxContractEvent pairs a decoded contract event with the hash of the
// transaction that emitted it
type TxContractEvent struct {
	TxHash string
	Event  ContractEvent
}

type txContractEventEnvelope struct {
	TxHash string          `cbor:"1,keyasint"`
	Action string          `cbor:"2,keyasint"`
	Event  cbor.RawMessage `cbor:"3,keyasint"`
}

// MarshalCBOR encodes the event together with its action discriminator, so the
// concrete type can be restored when reading back from the database
func (t TxContractEvent) MarshalCBOR() ([]byte, error) {
	rawEvent, err := cbor.Marshal(t.Event)
	if err != nil {
		return nil, err
	}

	return cbor.Marshal(txContractEventEnvelope{
		TxHash: t.TxHash,
		Action: t.Event.Action(),
		Event:  rawEvent,
	})
}

func (t *TxContractEvent) UnmarshalCBOR(data []byte) error {
	var envelope txContractEventEnvelope

	if err := cbor.Unmarshal(data, &envelope); err != nil {
		return err
	}

	var event ContractEvent

	switch envelope.Action {
	case ActionPegIn:
		event = &PegInEvent{}
	case ActionPegOut:
		event = &PegOutEvent{}
	default:
		return fmt.Errorf("unknown contract event action: %s", envelope.Action)
	}

	if err := cbor.Unmarshal(envelope.Event, event); err != nil {
		return err
	}

	t.TxHash = envelope.TxHash
	t.Event = event

	return nil
}

// BlockEvents holds all contract events extracted from one block, in
// transaction order
type BlockEvents struct {
	Height uint64            `cbor:"1,keyasint"`
	Events []TxContractEvent `cbor:"2,keyasint"`
}

func (b *BlockEvents) Key() []byte {
	return EncodeUint64ToBytes(b.Height)
}

func EncodeUint64ToBytes(value uint64) []byte {
	result := make([]byte, 8)
	binary.BigEndian.PutUint64(result, value)

	return result
}
