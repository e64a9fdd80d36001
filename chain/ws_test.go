package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionClient(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}

	newBlockNotification := func(height string) map[string]interface{} {
		return map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"result": map[string]interface{}{
				"data": map[string]interface{}{
					"type": newBlockEventType,
					"value": map[string]interface{}{
						"block": map[string]interface{}{
							"header": map[string]interface{}{
								"height": height,
							},
						},
					},
				},
			},
		}
	}

	newServer := func(t *testing.T, serve func(conn *websocket.Conn)) string {
		t.Helper()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			require.NoError(t, err)

			defer conn.Close()

			var request rpcRequest

			require.NoError(t, conn.ReadJSON(&request))
			require.Equal(t, "subscribe", request.Method)

			// subscription acknowledgment with an empty result
			require.NoError(t, conn.WriteJSON(map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      request.ID,
				"result":  map[string]interface{}{},
			}))

			serve(conn)
		}))
		t.Cleanup(server.Close)

		return "ws" + strings.TrimPrefix(server.URL, "http")
	}

	t.Run("receives heights and skips ack", func(t *testing.T) {
		t.Parallel()

		url := newServer(t, func(conn *websocket.Conn) {
			require.NoError(t, conn.WriteJSON(newBlockNotification("100")))
			require.NoError(t, conn.WriteJSON(newBlockNotification("101")))
		})

		client := NewSubscriptionClient(url, hclog.NewNullLogger())
		require.NoError(t, client.Connect(context.Background()))

		defer client.Close()

		height, err := client.ReadHeight()
		require.NoError(t, err)
		require.Equal(t, uint64(100), height)

		height, err = client.ReadHeight()
		require.NoError(t, err)
		require.Equal(t, uint64(101), height)
	})

	t.Run("skips unrelated notifications", func(t *testing.T) {
		t.Parallel()

		url := newServer(t, func(conn *websocket.Conn) {
			require.NoError(t, conn.WriteJSON(map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      1,
				"result": map[string]interface{}{
					"data": map[string]interface{}{
						"type":  "tendermint/event/Tx",
						"value": map[string]interface{}{},
					},
				},
			}))
			require.NoError(t, conn.WriteJSON(newBlockNotification("55")))
		})

		client := NewSubscriptionClient(url, hclog.NewNullLogger())
		require.NoError(t, client.Connect(context.Background()))

		defer client.Close()

		height, err := client.ReadHeight()
		require.NoError(t, err)
		require.Equal(t, uint64(55), height)
	})

	t.Run("read after close fails", func(t *testing.T) {
		t.Parallel()

		url := newServer(t, func(conn *websocket.Conn) {})

		client := NewSubscriptionClient(url, hclog.NewNullLogger())
		require.NoError(t, client.Connect(context.Background()))
		require.NoError(t, client.Close())

		_, err := client.ReadHeight()
		require.Error(t, err)

		require.ErrorIs(t, client.Connect(context.Background()), errSubscriptionClosed)
	})

	t.Run("read without connect fails", func(t *testing.T) {
		t.Parallel()

		client := NewSubscriptionClient("ws://127.0.0.1:1", hclog.NewNullLogger())

		_, err := client.ReadHeight()
		require.Error(t, err)
	})
}
