package domain

import "github.com/shopspring/decimal"

// Price is a money amount. It is stored as NUMERIC(10,2) and always rendered
// with two decimal places, so 15000 goes out as "15000.00".
type Price struct {
	decimal.Decimal
}

func NewPrice(d decimal.Decimal) *Price {
	return &Price{Decimal: d}
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.StringFixed(2) + `"`), nil
}
