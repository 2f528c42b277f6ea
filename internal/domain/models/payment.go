package models

// PaymentProof is the caller-supplied receipt for a micropayment, normally
// carried in the X-402-Receipt header as JSON. Amount is in minor units of
// the settlement token (USDC, 6 decimals), kept as a string on the wire.
type PaymentProof struct {
	TransactionHash string `json:"transactionHash"`
	From            string `json:"from"`
	To              string `json:"to"`
	Amount          string `json:"amount"`
	Token           string `json:"token"`
	Timestamp       int64  `json:"timestamp"`
}

// PaymentDescriptor tells a client how to pay for a resource.
type PaymentDescriptor struct {
	Scheme            string `json:"scheme"`
	Network           string `json:"network"`
	MaxAmountRequired string `json:"maxAmountRequired"`
	Resource          string `json:"resource"`
	Description       string `json:"description"`
	PayTo             string `json:"payTo"`
}

// X402Header is the machine-readable payment challenge placed in the
// X-402-Required response header.
type X402Header struct {
	Accepts []PaymentDescriptor `json:"accepts"`
}
