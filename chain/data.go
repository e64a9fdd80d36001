package chain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
)

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s: %s", e.Code, e.Message, e.Data)
}

type SyncInfo struct {
	LatestBlockHeight string `json:"latest_block_height"`
	CatchingUp        bool   `json:"catching_up"`
}

type Status struct {
	SyncInfo SyncInfo `json:"sync_info"`
}

// LatestHeight returns the latest committed height reported by the node
func (s *Status) LatestHeight() (uint64, error) {
	return ParseHeight(s.SyncInfo.LatestBlockHeight)
}

type BlockHeader struct {
	ChainID string `json:"chain_id"`
	Height  string `json:"height"`
}

type BlockData struct {
	// raw transaction bytes, base64 encoded on the wire
	Txs []string `json:"txs"`
}

type BlockInner struct {
	Header BlockHeader `json:"header"`
	Data   BlockData   `json:"data"`
}

type Block struct {
	Block BlockInner `json:"block"`
}

// RawTxs decodes the base64 encoded transactions committed in the block,
// preserving their order
func (b *Block) RawTxs() ([][]byte, error) {
	if len(b.Block.Data.Txs) == 0 {
		return nil, nil
	}

	result := make([][]byte, len(b.Block.Data.Txs))

	for i, x := range b.Block.Data.Txs {
		raw, err := base64.StdEncoding.DecodeString(x)
		if err != nil {
			return nil, fmt.Errorf("failed to decode tx %d: %w", i, err)
		}

		result[i] = raw
	}

	return result, nil
}

type EventAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Index bool   `json:"index,omitempty"`
}

type Event struct {
	Type       string           `json:"type"`
	Attributes []EventAttribute `json:"attributes"`
}

type TxResult struct {
	Code      uint32  `json:"code"`
	Log       string  `json:"log"`
	GasWanted string  `json:"gas_wanted"`
	GasUsed   string  `json:"gas_used"`
	Events    []Event `json:"events"`
}

type BlockResults struct {
	Height     string      `json:"height"`
	TxsResults []*TxResult `json:"txs_results"`
}

type BroadcastTxResult struct {
	Code      uint32 `json:"code"`
	Data      string `json:"data"`
	Log       string `json:"log"`
	Codespace string `json:"codespace"`
	Hash      string `json:"hash"`
}

type ABCIResponse struct {
	Code uint32 `json:"code"`
	Log  string `json:"log"`
	// base64 on the wire, decoded by encoding/json into raw bytes
	Value []byte `json:"value"`
}

type abciQueryResult struct {
	Response ABCIResponse `json:"response"`
}

// ParseHeight parses the decimal string height encoding used by the rpc endpoints
func ParseHeight(s string) (uint64, error) {
	height, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid height %q: %w", s, err)
	}

	return height, nil
}
