package wallet

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/fiamma-chain/cosmwasm-indexer/secrets"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck
)

const privateKeySize = 32

// Wallet holds the secp256k1 signing key of the relayer account together with
// its bech32 address
type Wallet struct {
	privateKey *secp256k1.PrivateKey
	address    string
}

// NewWallet creates a wallet from a hex encoded secp256k1 private key
func NewWallet(privateKeyHex string, accountPrefix string) (*Wallet, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(privateKeyHex))
	if err != nil {
		return nil, fmt.Errorf("invalid private key encoding: %w", err)
	}

	if len(raw) != privateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}

	privateKey := secp256k1.PrivKeyFromBytes(raw)

	address, err := pubKeyToAddress(privateKey.PubKey(), accountPrefix)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		privateKey: privateKey,
		address:    address,
	}, nil
}

// NewWalletFromSecretsManager creates a wallet from the relayer key stored in
// the secrets manager
func NewWalletFromSecretsManager(
	secretsManager secrets.SecretsManager, accountPrefix string,
) (*Wallet, error) {
	key, err := secretsManager.GetSecret(secrets.RelayerKey)
	if err != nil {
		return nil, err
	}

	return NewWallet(string(key), accountPrefix)
}

// Address returns the bech32 account address
func (w *Wallet) Address() string {
	return w.address
}

// PubKeyBytes returns the compressed public key, 33 bytes
func (w *Wallet) PubKeyBytes() []byte {
	return w.privateKey.PubKey().SerializeCompressed()
}

// Sign signs the sha256 digest of the message and returns the signature in
// the fixed 64 byte R || S form
func (w *Wallet) Sign(message []byte) ([]byte, error) {
	hash := sha256.Sum256(message)

	signature := secpecdsa.Sign(w.privateKey, hash[:])

	r, s := signature.R(), signature.S()
	rBytes, sBytes := r.Bytes(), s.Bytes()

	result := make([]byte, 64)
	copy(result[:32], rBytes[:])
	copy(result[32:], sBytes[:])

	return result, nil
}

// pubKeyToAddress derives the bech32 account address,
// ripemd160(sha256(compressed public key)) with the account prefix
func pubKeyToAddress(pubKey *secp256k1.PublicKey, accountPrefix string) (string, error) {
	sha := sha256.Sum256(pubKey.SerializeCompressed())

	hasher := ripemd160.New()
	hasher.Write(sha[:])

	converted, err := bech32.ConvertBits(hasher.Sum(nil), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("could not convert address bits: %w", err)
	}

	return bech32.Encode(accountPrefix, converted)
}
