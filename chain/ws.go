package chain

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

const (
	newBlockQuery     = "tm.event='NewBlock'"
	newBlockEventType = "tendermint/event/NewBlock"
)

var errSubscriptionClosed = errors.New("subscription client closed")

// SubscriptionClient maintains a websocket connection to the node and a
// NewBlock subscription on top of it. Heights are consumed with ReadHeight.
type SubscriptionClient struct {
	url    string
	logger hclog.Logger

	conn     *websocket.Conn
	lock     sync.Mutex
	isClosed bool
}

func NewSubscriptionClient(url string, logger hclog.Logger) *SubscriptionClient {
	return &SubscriptionClient{
		url:    url,
		logger: logger,
	}
}

// Connect dials the websocket endpoint and submits the NewBlock subscription
// request. An existing connection is closed first, so Connect can also be used
// to re-establish a broken subscription.
func (sc *SubscriptionClient) Connect(ctx context.Context) error {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	if sc.isClosed {
		return errSubscriptionClosed
	}

	sc.closeConnectionNoLock()

	sc.logger.Debug("Connecting to websocket endpoint", "url", sc.url)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, sc.url, nil)
	if err != nil {
		return err
	}

	request := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "subscribe",
		Params: map[string]interface{}{
			"query": newBlockQuery,
		},
	}

	if err := conn.WriteJSON(request); err != nil {
		_ = conn.Close()

		return err
	}

	sc.conn = conn

	sc.logger.Debug("NewBlock subscription established", "url", sc.url)

	return nil
}

// ReadHeight blocks until the next NewBlock notification arrives and returns
// its height. The subscription acknowledgment and unrelated messages are
// skipped. Closing the client unblocks the call with an error.
func (sc *SubscriptionClient) ReadHeight() (uint64, error) {
	sc.lock.Lock()
	conn := sc.conn
	sc.lock.Unlock()

	if conn == nil {
		return 0, errors.New("subscription not connected")
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return 0, err
		}

		var response rpcResponse

		if err := json.Unmarshal(message, &response); err != nil {
			return 0, err
		}

		if response.Error != nil {
			return 0, response.Error
		}

		var notification struct {
			Data struct {
				Type  string          `json:"type"`
				Value json.RawMessage `json:"value"`
			} `json:"data"`
		}

		if err := json.Unmarshal(response.Result, &notification); err != nil {
			return 0, err
		}

		if notification.Data.Type != newBlockEventType {
			continue
		}

		var newBlock struct {
			Block struct {
				Header BlockHeader `json:"header"`
			} `json:"block"`
		}

		if err := json.Unmarshal(notification.Data.Value, &newBlock); err != nil {
			return 0, err
		}

		height, err := ParseHeight(newBlock.Block.Header.Height)
		if err != nil {
			sc.logger.Warn("NewBlock notification without a valid height", "err", err)

			continue
		}

		return height, nil
	}
}

func (sc *SubscriptionClient) Close() error {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	if !sc.isClosed {
		sc.isClosed = true

		sc.closeConnectionNoLock()
	}

	return nil
}

func (sc *SubscriptionClient) closeConnectionNoLock() {
	if oldConn := sc.conn; oldConn != nil {
		if err := oldConn.Close(); err != nil {
			sc.logger.Warn("Error while closing previous connection", "err", err)
		}

		sc.conn = nil
	}
}
