package types

import (
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/samber/lo"
)

// ProductKey identifies a catalog product the application knows how to
// reason about. Catalog products outside this set are ignored, not errors.
type ProductKey string

const (
	ProductContribution  ProductKey = "contribution"
	ProductSupporterPlus ProductKey = "supporter_plus"
)

func ProductKeys() []ProductKey {
	return []ProductKey{ProductContribution, ProductSupporterPlus}
}

func (k ProductKey) String() string {
	return string(k)
}

func (k ProductKey) Validate() error {
	if !lo.Contains(ProductKeys(), k) {
		return ierr.NewErrorf("invalid product key: %s", k).
			WithHintf("valid products are: %v", ProductKeys()).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RatePlanKey identifies a recognized rate plan within a known product.
type RatePlanKey string

const (
	RatePlanMonthly RatePlanKey = "monthly"
	RatePlanAnnual  RatePlanKey = "annual"
)

func RatePlanKeys() []RatePlanKey {
	return []RatePlanKey{RatePlanMonthly, RatePlanAnnual}
}

func (k RatePlanKey) String() string {
	return string(k)
}

func (k RatePlanKey) Validate() error {
	if !lo.Contains(RatePlanKeys(), k) {
		return ierr.NewErrorf("invalid rate plan key: %s", k).
			WithHintf("valid rate plans are: %v", RatePlanKeys()).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ChargeKey identifies a charge within a recognized rate plan. Unlike
// products and plans this is a closed set: a recognized plan carrying a
// charge outside this set means the catalog no longer matches the code.
type ChargeKey string

const (
	ChargeContribution ChargeKey = "contribution"
	ChargeSubscription ChargeKey = "subscription"
)

func ChargeKeys() []ChargeKey {
	return []ChargeKey{ChargeContribution, ChargeSubscription}
}

func (k ChargeKey) String() string {
	return string(k)
}
