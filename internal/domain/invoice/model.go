package invoice

import (
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/shopspring/decimal"
)

// Preview is a single previewed invoice from the billing platform. Amounts
// on line items arrive as integer minor units; the invoice total is a
// decimal amount. At most one item per charge id may appear.
type Preview struct {
	Amount decimal.Decimal `json:"amount"`
	Items  []Item          `json:"invoiceItems"`
}

// Item is one previewed invoice line, keyed by the catalog charge that
// produced it.
type Item struct {
	ChargeID            string     `json:"productRatePlanChargeId"`
	ServiceStartDate    types.Date `json:"serviceStartDate"`
	ServiceEndDate      types.Date `json:"serviceEndDate"`
	AmountMinorUnits    int64      `json:"amountInCents"`
	UnitPriceMinorUnits int64      `json:"unitPriceInCents"`
}

// AmountDecimal converts the item's minor-unit amount to a decimal amount.
func (i Item) AmountDecimal() decimal.Decimal {
	return decimal.NewFromInt(i.AmountMinorUnits).Div(decimal.NewFromInt(100))
}

// UnitPriceDecimal converts the item's minor-unit price to a decimal amount.
func (i Item) UnitPriceDecimal() decimal.Decimal {
	return decimal.NewFromInt(i.UnitPriceMinorUnits).Div(decimal.NewFromInt(100))
}

// HasNegativeItem reports whether any line item carries a negative amount,
// which indicates an existing discount on the upcoming invoice.
func (p *Preview) HasNegativeItem() bool {
	for _, item := range p.Items {
		if item.AmountMinorUnits < 0 {
			return true
		}
	}
	return false
}
