package types

import (
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/samber/lo"
)

// BillingPeriod is the billing frequency of a rate plan charge.
type BillingPeriod string

const (
	BILLING_PERIOD_MONTHLY BillingPeriod = "Month"
	BILLING_PERIOD_ANNUAL  BillingPeriod = "Annual"
)

func (b BillingPeriod) String() string {
	return string(b)
}

func (b BillingPeriod) Validate() error {
	allowed := []BillingPeriod{BILLING_PERIOD_MONTHLY, BILLING_PERIOD_ANNUAL}
	if !lo.Contains(allowed, b) {
		return ierr.NewErrorf("invalid billing period: %s", b).
			WithHintf("valid billing periods are: %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionStatus is the lifecycle status reported by the billing platform.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "Active"
	SubscriptionStatusCancelled SubscriptionStatus = "Cancelled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// LastChangeType records the most recent amendment applied to a rate plan
// in the subscription's history.
type LastChangeType string

const (
	LastChangeTypeAdd    LastChangeType = "Add"
	LastChangeTypeUpdate LastChangeType = "Update"
	LastChangeTypeRemove LastChangeType = "Remove"
)

// UpToPeriodsType is the unit of a discount's duration.
type UpToPeriodsType string

const (
	UpToPeriodsTypeMonths UpToPeriodsType = "Months"
	UpToPeriodsTypeYears  UpToPeriodsType = "Years"
)
