package sendtx

import (
	"context"
	"fmt"

	"github.com/fiamma-chain/cosmwasm-indexer/chain"
	"google.golang.org/protobuf/encoding/protowire"
)

const queryAccountPath = "/cosmos.auth.v1beta1.Query/Account"

// Account holds the auth module state needed for signing
type Account struct {
	AccountNumber uint64
	Sequence      uint64
}

// QueryAccount fetches the account number and sequence of the address
// through the auth module abci query
func QueryAccount(ctx context.Context, client chain.Client, address string) (*Account, error) {
	// QueryAccountRequest, address = 1
	var request []byte

	request = protowire.AppendTag(request, 1, protowire.BytesType)
	request = protowire.AppendString(request, address)

	response, err := client.ABCIQuery(ctx, queryAccountPath, request)
	if err != nil {
		return nil, fmt.Errorf("account query failed for %s: %w", address, err)
	}

	// QueryAccountResponse, account = 1 (Any)
	anyBytes, err := consumeBytesField(response.Value, 1)
	if err != nil {
		return nil, fmt.Errorf("malformed account response: %w", err)
	}

	// Any, value = 2 holds the serialized BaseAccount
	accountBytes, err := consumeBytesField(anyBytes, 2)
	if err != nil {
		return nil, fmt.Errorf("malformed account container: %w", err)
	}

	return parseBaseAccount(accountBytes)
}

// parseBaseAccount decodes a BaseAccount,
// account_number = 3, sequence = 4
func parseBaseAccount(data []byte) (*Account, error) {
	account := &Account{}

	for len(data) > 0 {
		fieldNum, wireType, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}

		data = data[n:]

		switch {
		case fieldNum == 3 && wireType == protowire.VarintType:
			value, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}

			account.AccountNumber = value
			data = data[n:]
		case fieldNum == 4 && wireType == protowire.VarintType:
			value, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}

			account.Sequence = value
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(fieldNum, wireType, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}

			data = data[n:]
		}
	}

	return account, nil
}

// consumeBytesField returns the value of the first length-delimited field
// with the given number
func consumeBytesField(data []byte, target protowire.Number) ([]byte, error) {
	for len(data) > 0 {
		fieldNum, wireType, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}

		data = data[n:]

		if fieldNum == target && wireType == protowire.BytesType {
			value, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}

			return value, nil
		}

		n = protowire.ConsumeFieldValue(fieldNum, wireType, data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}

		data = data[n:]
	}

	return nil, fmt.Errorf("field %d not found", target)
}
