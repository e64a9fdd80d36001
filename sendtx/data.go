package sendtx

// Contract execute messages, serialized to the json form the bridge
// contract expects

type PegInMsg struct {
	PegIn struct {
		ReceiverAddress string `json:"receiver_address"`
		Amount          uint64 `json:"amount"`
	} `json:"peg_in"`
}

type PegOutMsg struct {
	PegOut struct {
		Amount        uint64 `json:"amount"`
		BtcAddress    string `json:"btc_address"`
		OperatorBtcPk string `json:"operator_btc_pk"`
	} `json:"peg_out"`
}

// InstantiateMsg is the init message of the bridge contract
type InstantiateMsg struct {
	BtcPk string `json:"btc_pk"`
}

func NewPegInMsg(receiverAddress string, amount uint64) *PegInMsg {
	msg := &PegInMsg{}
	msg.PegIn.ReceiverAddress = receiverAddress
	msg.PegIn.Amount = amount

	return msg
}

func NewPegOutMsg(amount uint64, btcAddress string, operatorBtcPk string) *PegOutMsg {
	msg := &PegOutMsg{}
	msg.PegOut.Amount = amount
	msg.PegOut.BtcAddress = btcAddress
	msg.PegOut.OperatorBtcPk = operatorBtcPk

	return msg
}
