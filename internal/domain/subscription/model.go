package subscription

import (
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/shopspring/decimal"
)

// Subscription is the raw, history-bearing subscription record returned by
// the billing platform. RatePlans is ordered and may contain multiple
// entries for the same product rate plan: an add → remove → re-add history
// leaves one entry per amendment generation.
type Subscription struct {
	SubscriptionNumber        string                   `json:"subscriptionNumber"`
	AccountNumber             string                   `json:"accountNumber"`
	Status                    types.SubscriptionStatus `json:"status"`
	TermStartDate             types.Date               `json:"termStartDate"`
	CancellationEffectiveDate *types.Date              `json:"cancelledDate,omitempty"`
	RatePlans                 []RatePlan               `json:"ratePlans"`
}

// RatePlan is one plan instance in the subscription's history.
type RatePlan struct {
	ID                string               `json:"id"`
	ProductID         string               `json:"productId"`
	ProductRatePlanID string               `json:"productRatePlanId"`
	ProductName       string               `json:"productName"`
	LastChangeType    types.LastChangeType `json:"lastChangeType,omitempty"`
	Charges           []Charge             `json:"ratePlanCharges"`
}

// Charge is a single charge under a plan instance. Effective dates are
// day-granularity.
type Charge struct {
	ProductRatePlanChargeID string              `json:"productRatePlanChargeId"`
	Name                    string              `json:"name"`
	Price                   decimal.Decimal     `json:"price"`
	Currency                string              `json:"currency"`
	BillingPeriod           types.BillingPeriod `json:"billingPeriod"`
	EffectiveStartDate      types.Date          `json:"effectiveStartDate"`
	EffectiveEndDate        types.Date          `json:"effectiveEndDate"`
	ChargedThroughDate      *types.Date         `json:"chargedThroughDate,omitempty"`
}

// Account is the billing account the subscription belongs to.
type Account struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	IdentityID    string          `json:"identityId,omitempty"`
	EmailAddress  string          `json:"emailAddress,omitempty"`
	FirstName     string          `json:"firstName,omitempty"`
	LastName      string          `json:"lastName,omitempty"`
}

// IsCancelled reports whether the subscription has been cancelled and a
// cancellation effective date is known.
func (s *Subscription) IsCancelled() bool {
	return s.Status == types.SubscriptionStatusCancelled && s.CancellationEffectiveDate != nil
}
