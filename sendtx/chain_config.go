package sendtx

import "errors"

const (
	defaultGasLimit  = uint64(300_000)
	defaultFeeAmount = uint64(3_000)
)

// ChainConfig describes the target chain and the fee policy used when
// submitting contract transactions
type ChainConfig struct {
	ChainID         string `json:"chainID"`
	AccountPrefix   string `json:"accountPrefix"`
	Denom           string `json:"denom"`
	ContractAddress string `json:"contractAddress"`
	GasLimit        uint64 `json:"gasLimit"`
	FeeAmount       uint64 `json:"feeAmount"`
}

func (c *ChainConfig) Validate() error {
	if c.ChainID == "" {
		return errors.New("chain id not specified")
	}

	if c.AccountPrefix == "" {
		return errors.New("account prefix not specified")
	}

	if c.Denom == "" {
		return errors.New("denom not specified")
	}

	if c.GasLimit == 0 {
		c.GasLimit = defaultGasLimit
	}

	if c.FeeAmount == 0 {
		c.FeeAmount = defaultFeeAmount
	}

	return nil
}
