package testutil

import (
	"github.com/guardianapis/product-switch/internal/domain/subscription"
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/shopspring/decimal"
)

const (
	SubscriptionNumber = "A-S00001"
	AccountNumber      = "A-ACC001"
)

// MustDate parses a fixture date or panics.
func MustDate(s string) types.Date {
	d, err := types.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewMonthlyContribution builds a live monthly recurring contribution at
// the given amount. The term started well in the past and the charge runs
// far into the future.
func NewMonthlyContribution(amount decimal.Decimal) *subscription.Subscription {
	return &subscription.Subscription{
		SubscriptionNumber: SubscriptionNumber,
		AccountNumber:      AccountNumber,
		Status:             types.SubscriptionStatusActive,
		TermStartDate:      MustDate("2024-01-15"),
		RatePlans: []subscription.RatePlan{
			{
				ID:                "rp_contrib_monthly",
				ProductID:         ContributionProductID,
				ProductRatePlanID: ContributionMonthlyPlanID,
				ProductName:       "Contributor",
				LastChangeType:    types.LastChangeTypeAdd,
				Charges: []subscription.Charge{
					{
						ProductRatePlanChargeID: ContributionMonthlyChargeID,
						Name:                    "Contribution",
						Price:                   amount,
						Currency:                "GBP",
						BillingPeriod:           types.BILLING_PERIOD_MONTHLY,
						EffectiveStartDate:      MustDate("2024-01-15"),
						EffectiveEndDate:        MustDate("2099-01-15"),
					},
				},
			},
		},
	}
}

// NewAnnualContribution builds a live annual recurring contribution at the
// given amount.
func NewAnnualContribution(amount decimal.Decimal) *subscription.Subscription {
	sub := NewMonthlyContribution(amount)
	plan := &sub.RatePlans[0]
	plan.ID = "rp_contrib_annual"
	plan.ProductRatePlanID = ContributionAnnualPlanID
	plan.Charges[0].ProductRatePlanChargeID = ContributionAnnualChargeID
	plan.Charges[0].BillingPeriod = types.BILLING_PERIOD_ANNUAL
	return sub
}

// NewAccount builds the billing account the fixtures belong to, with a zero
// balance.
func NewAccount() *subscription.Account {
	return &subscription.Account{
		AccountNumber: AccountNumber,
		Balance:       decimal.Zero,
		Currency:      "GBP",
		IdentityID:    "identity-100001",
		EmailAddress:  "test.user@example.com",
		FirstName:     "Test",
		LastName:      "User",
	}
}
