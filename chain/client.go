package chain

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/fiamma-chain/cosmwasm-indexer/common"
	"github.com/hashicorp/go-hclog"
)

const (
	defaultRequestTimeout = time.Second * 15
	defaultRetryCount     = 5
	defaultRetryWaitTime  = time.Second
)

// Client is the rpc boundary of the chain node used by the listener and the tx sender
type Client interface {
	Status(ctx context.Context) (*Status, error)
	Block(ctx context.Context, height uint64) (*Block, error)
	BlockResults(ctx context.Context, height uint64) (*BlockResults, error)
	BroadcastTxSync(ctx context.Context, tx []byte) (*BroadcastTxResult, error)
	ABCIQuery(ctx context.Context, path string, data []byte) (*ABCIResponse, error)
}

type HTTPClientConfig struct {
	URL            string        `json:"url"`
	RequestTimeout time.Duration `json:"requestTimeout"`
	RetryCount     int           `json:"retryCount"`
	RetryWaitTime  time.Duration `json:"retryWaitTime"`
}

type HTTPClient struct {
	config     *HTTPClientConfig
	httpClient *http.Client
	requestID  uint64
	logger     hclog.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(config *HTTPClientConfig, logger hclog.Logger) *HTTPClient {
	requestTimeout := config.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

func (c *HTTPClient) Status(ctx context.Context) (*Status, error) {
	result := &Status{}
	if err := c.call(ctx, "status", nil, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *HTTPClient) Block(ctx context.Context, height uint64) (*Block, error) {
	result := &Block{}
	if err := c.call(ctx, "block", heightParams(height), result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *HTTPClient) BlockResults(ctx context.Context, height uint64) (*BlockResults, error) {
	result := &BlockResults{}
	if err := c.call(ctx, "block_results", heightParams(height), result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *HTTPClient) BroadcastTxSync(ctx context.Context, tx []byte) (*BroadcastTxResult, error) {
	result := &BroadcastTxResult{}
	params := map[string]interface{}{
		"tx": base64.StdEncoding.EncodeToString(tx),
	}

	if err := c.call(ctx, "broadcast_tx_sync", params, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *HTTPClient) ABCIQuery(ctx context.Context, path string, data []byte) (*ABCIResponse, error) {
	result := &abciQueryResult{}
	params := map[string]interface{}{
		"path":  path,
		"data":  hex.EncodeToString(data),
		"prove": false,
	}

	if err := c.call(ctx, "abci_query", params, result); err != nil {
		return nil, err
	}

	if result.Response.Code != 0 {
		return nil, fmt.Errorf("abci query %s failed with code %d: %s",
			path, result.Response.Code, result.Response.Log)
	}

	return &result.Response, nil
}

func (c *HTTPClient) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	retryCount := c.config.RetryCount
	if retryCount <= 0 {
		retryCount = defaultRetryCount
	}

	retryWaitTime := c.config.RetryWaitTime
	if retryWaitTime <= 0 {
		retryWaitTime = defaultRetryWaitTime
	}

	raw, err := common.ExecuteWithRetry(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.doCall(ctx, method, params)
	}, common.WithRetryCount(retryCount), common.WithRetryWaitTime(retryWaitTime),
		common.WithLogger(c.logger))
	if err != nil {
		return fmt.Errorf("rpc call %s failed: %w", method, err)
	}

	return json.Unmarshal(raw, result)
}

func (c *HTTPClient) doCall(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	request := rpcRequest{
		JSONRPC: "2.0",
		ID:      atomic.AddUint64(&c.requestID, 1),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, err
	}

	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc call %s returned status code %d", method, httpResponse.StatusCode)
	}

	var response rpcResponse

	if err := json.NewDecoder(httpResponse.Body).Decode(&response); err != nil {
		return nil, err
	}

	if response.Error != nil {
		return nil, response.Error
	}

	return response.Result, nil
}

func heightParams(height uint64) map[string]interface{} {
	return map[string]interface{}{
		"height": strconv.FormatUint(height, 10),
	}
}
