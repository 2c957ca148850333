package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// Money formats amounts with a currency symbol, two decimals, "." as the
// thousands separator and "," as the decimal mark.
type Money struct {
	ac *accounting.Accounting
}

func NewMoney(symbol string) *Money {
	if symbol == "" {
		symbol = "€"
	}
	return &Money{ac: &accounting.Accounting{
		Symbol:    symbol,
		Precision: 2,
		Thousand:  ".",
		Decimal:   ",",
		Format:    "%s %v",
	}}
}

func (m *Money) Format(amount decimal.Decimal) string {
	return m.ac.FormatMoneyDecimal(amount)
}
