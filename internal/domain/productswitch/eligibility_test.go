package productswitch

import (
	"testing"

	"github.com/guardianapis/product-switch/internal/domain/invoice"
	"github.com/guardianapis/product-switch/internal/domain/subscription"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEligibleForSave(t *testing.T) {
	clean := &invoice.Preview{Items: []invoice.Item{
		{ChargeID: "chg_1", AmountMinorUnits: 1200},
	}}
	discounted := &invoice.Preview{Items: []invoice.Item{
		{ChargeID: "chg_1", AmountMinorUnits: 1200},
		{ChargeID: "chg_discount", AmountMinorUnits: -600},
	}}

	tests := []struct {
		name     string
		balance  decimal.Decimal
		upcoming *invoice.Preview
		want     bool
	}{
		{"zero balance, clean preview", decimal.Zero, clean, true},
		{"credit balance, clean preview", decimal.NewFromInt(-10), clean, true},
		{"outstanding balance", decimal.NewFromInt(10), clean, false},
		{"existing discount on upcoming invoice", decimal.Zero, discounted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &subscription.Account{Balance: tt.balance}
			assert.Equal(t, tt.want, EligibleForSave(account, tt.upcoming))
		})
	}
}
