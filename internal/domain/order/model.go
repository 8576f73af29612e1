package order

import (
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/shopspring/decimal"
)

// Request is the transactional order sent to the billing platform. The
// action list is ordered; the platform applies actions in sequence.
type Request struct {
	OrderDate             string         `json:"orderDate"`
	ExistingAccountNumber string         `json:"existingAccountNumber"`
	Subscriptions         []Subscription `json:"subscriptions"`
}

type Subscription struct {
	SubscriptionNumber string   `json:"subscriptionNumber"`
	OrderActions       []Action `json:"orderActions"`
}

// Action is a tagged variant: exactly one of the payload fields matching
// Type is set.
type Action struct {
	Type               types.OrderActionType `json:"type"`
	TriggerDates       []TriggerDate         `json:"triggerDates"`
	ChangePlan         *ChangePlan           `json:"changePlan,omitempty"`
	AddProduct         *AddProduct           `json:"addProduct,omitempty"`
	TermsAndConditions *TermsAndConditions   `json:"termsAndConditions,omitempty"`
	RenewSubscription  *RenewSubscription    `json:"renewSubscription,omitempty"`
}

type TriggerDate struct {
	Name        string     `json:"name"`
	TriggerDate types.Date `json:"triggerDate"`
}

// ChangePlan removes the source rate plan and adds the target rate plan in
// one action, carrying any contribution price override.
type ChangePlan struct {
	ProductRatePlanID  string           `json:"productRatePlanId"`
	SubType            string           `json:"subType"`
	NewProductRatePlan RatePlanOverride `json:"newProductRatePlan"`
}

type AddProduct struct {
	ProductRatePlanID string           `json:"productRatePlanId"`
	ChargeOverrides   []ChargeOverride `json:"chargeOverrides,omitempty"`
}

type RatePlanOverride struct {
	ProductRatePlanID string           `json:"productRatePlanId"`
	ChargeOverrides   []ChargeOverride `json:"chargeOverrides,omitempty"`
}

type ChargeOverride struct {
	ProductRatePlanChargeID string        `json:"productRatePlanChargeId"`
	Pricing                 PriceOverride `json:"pricing"`
}

type PriceOverride struct {
	RecurringFlatFee RecurringFlatFee `json:"recurringFlatFee"`
}

type RecurringFlatFee struct {
	ListPrice decimal.Decimal `json:"listPrice"`
}

// TermsAndConditions restarts the current term at the order date so the
// following RenewSubscription action takes effect immediately.
type TermsAndConditions struct {
	LastTerm LastTerm `json:"lastTerm"`
}

type LastTerm struct {
	TermType  string     `json:"termType"`
	StartDate types.Date `json:"startDate"`
}

// RenewSubscription has no payload beyond its trigger dates.
type RenewSubscription struct{}
