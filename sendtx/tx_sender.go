package sendtx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fiamma-chain/cosmwasm-indexer/chain"
	"github.com/fiamma-chain/cosmwasm-indexer/wallet"
	"github.com/hashicorp/go-hclog"
)

// TxSender builds, signs and submits bridge contract transactions
type TxSender struct {
	config *ChainConfig
	client chain.Client
	wallet *wallet.Wallet
	logger hclog.Logger
}

func NewTxSender(
	config *ChainConfig, client chain.Client, wallet *wallet.Wallet, logger hclog.Logger,
) (*TxSender, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &TxSender{
		config: config,
		client: client,
		wallet: wallet,
		logger: logger,
	}, nil
}

// PegIn locks funds on the bridge contract in favor of the receiver. The
// pegged amount travels with the transaction as attached funds.
func (s *TxSender) PegIn(ctx context.Context, receiverAddress string, amount uint64) (string, error) {
	msgJSON, err := json.Marshal(NewPegInMsg(receiverAddress, amount))
	if err != nil {
		return "", err
	}

	return s.executeContract(ctx, msgJSON, []coin{{Denom: s.config.Denom, Amount: amount}})
}

// PegOut requests a withdrawal of the given amount to a bitcoin address
func (s *TxSender) PegOut(
	ctx context.Context, amount uint64, btcAddress string, operatorBtcPk string,
) (string, error) {
	msgJSON, err := json.Marshal(NewPegOutMsg(amount, btcAddress, operatorBtcPk))
	if err != nil {
		return "", err
	}

	return s.executeContract(ctx, msgJSON, nil)
}

// InstantiateContract deploys a new instance of an uploaded contract code
func (s *TxSender) InstantiateContract(
	ctx context.Context, codeID uint64, label string, initMsg *InstantiateMsg, admin string,
) (string, error) {
	msgJSON, err := json.Marshal(initMsg)
	if err != nil {
		return "", err
	}

	msgBytes := encodeMsgInstantiateContract(s.wallet.Address(), admin, codeID, label, msgJSON)

	return s.buildAndBroadcast(ctx, encodeTxBody(msgInstantiateContractTypeURL, msgBytes, ""))
}

func (s *TxSender) executeContract(ctx context.Context, msgJSON []byte, funds []coin) (string, error) {
	if s.config.ContractAddress == "" {
		return "", errors.New("contract address not specified")
	}

	msgBytes := encodeMsgExecuteContract(
		s.wallet.Address(), s.config.ContractAddress, msgJSON, funds)

	return s.buildAndBroadcast(ctx, encodeTxBody(msgExecuteContractTypeURL, msgBytes, ""))
}

func (s *TxSender) buildAndBroadcast(ctx context.Context, bodyBytes []byte) (string, error) {
	account, err := QueryAccount(ctx, s.client, s.wallet.Address())
	if err != nil {
		return "", err
	}

	authInfoBytes := encodeAuthInfo(
		s.wallet.PubKeyBytes(),
		account.Sequence,
		coin{Denom: s.config.Denom, Amount: s.config.FeeAmount},
		s.config.GasLimit,
	)

	signDoc := encodeSignDoc(bodyBytes, authInfoBytes, s.config.ChainID, account.AccountNumber)

	signature, err := s.wallet.Sign(signDoc)
	if err != nil {
		return "", err
	}

	result, err := s.client.BroadcastTxSync(ctx, encodeTxRaw(bodyBytes, authInfoBytes, signature))
	if err != nil {
		return "", err
	}

	if result.Code != 0 {
		return "", fmt.Errorf("tx rejected with code %d: %s", result.Code, result.Log)
	}

	s.logger.Info("Transaction broadcast", "hash", result.Hash,
		"sequence", account.Sequence, "account", s.wallet.Address())

	return result.Hash, nil
}
