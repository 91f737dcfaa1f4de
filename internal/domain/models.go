package domain

// Address is a canonical account identifier: "0x" followed by 40 hex digits.
// The case the user typed is preserved.
type Address string

func (a Address) String() string { return string(a) }

// TransactionRecord is one entry of an account's ledger history.
// Numeric fields are kept as the decimal strings the explorer returns.
type TransactionRecord struct {
	Hash     string `json:"hash,omitempty"`
	GasUsed  string `json:"gasUsed"`
	GasPrice string `json:"gasPrice"`
}

// UsageTotal is the fee spend of an account in ether, summed over Count records.
type UsageTotal struct {
	Spent float64 `json:"spent"`
	Count int     `json:"count"`
}

// SavingsEstimate holds full-precision figures except FiatSavings,
// which is already rounded to cents.
type SavingsEstimate struct {
	TotalSpent       float64 `json:"total_spent"`
	EstimatedSavings float64 `json:"estimated_savings"`
	FiatSavings      float64 `json:"fiat_savings"`
	Rate             float64 `json:"rate"`
}

// SavingsReport is everything the report screen shows for one address.
type SavingsReport struct {
	Address  Address         `json:"address"`
	Name     string          `json:"name,omitempty"`
	TxCount  int             `json:"tx_count"`
	Estimate SavingsEstimate `json:"estimate"`
}
