package models

import "github.com/shopspring/decimal"

// FeeQuote is the commission breakdown for a sale amount
type FeeQuote struct {
	Amount      int64           `json:"amount"`
	Fee         int64           `json:"fee"`
	FeeRate     decimal.Decimal `json:"fee_rate"`
	NetAmount   int64           `json:"net_amount"`
	Description string          `json:"band"`
}
