package productswitch

import (
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/shopspring/decimal"
)

// Discount is the catalog identity and terms of the retention discount.
// The rate plan and charge ids are environment-specific configuration.
type Discount struct {
	ProductRatePlanID       string
	ProductRatePlanChargeID string
	Percentage              decimal.Decimal
	UpToPeriods             int
	UpToPeriodsType         types.UpToPeriodsType
}

// ContributionCharge is the top-up charge on the target plan that absorbs
// any amount the customer pays above the plan's base price.
type ContributionCharge struct {
	ProductRatePlanChargeID string
	Amount                  decimal.Decimal
}

// TargetInformation is the fully resolved pricing of a switch target.
type TargetInformation struct {
	ActualTotalPrice     decimal.Decimal
	ProductRatePlanID    string
	SubscriptionChargeID string
	ContributionCharge   *ContributionCharge
	Discount             *Discount
}

// newTargetInformation computes the contribution top-up as the excess of
// the total over the (possibly discounted) plan price. A negative excess
// is a bug in the calling resolver, not a situation to clamp away.
func newTargetInformation(
	total decimal.Decimal,
	planPrice decimal.Decimal,
	planID string,
	subscriptionChargeID string,
	contributionChargeID string,
	discount *Discount,
) (*TargetInformation, error) {
	contribution := total.Sub(planPrice)
	if contribution.IsNegative() {
		return nil, ierr.NewErrorf("contribution amount is negative: %s - %s", total, planPrice).
			WithMessage("resolver produced a total below the plan price").
			Mark(ierr.ErrSystem)
	}

	info := &TargetInformation{
		ActualTotalPrice:     total,
		ProductRatePlanID:    planID,
		SubscriptionChargeID: subscriptionChargeID,
		Discount:             discount,
	}
	if contributionChargeID != "" {
		info.ContributionCharge = &ContributionCharge{
			ProductRatePlanChargeID: contributionChargeID,
			Amount:                  contribution,
		}
	}
	return info, nil
}
