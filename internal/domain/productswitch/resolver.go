package productswitch

import (
	"context"

	"github.com/guardianapis/product-switch/internal/domain/catalog"
	"github.com/guardianapis/product-switch/internal/domain/subscription"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/shopspring/decimal"
)

// ResolveParams carries everything a switch handler needs. Handlers are
// pure given these inputs; the only suspension point is the Eligibility
// deferred, which fetches at most once and only when the mode requires it.
type ResolveParams struct {
	Mode            types.SwitchMode
	Current         *subscription.SinglePlan
	Target          *catalog.PlanNode
	RequestedAmount *decimal.Decimal
	Eligibility     *Deferred[bool]
}

// resolveToTarget is the pricing core shared by all registered handlers.
func resolveToTarget(ctx context.Context, params ResolveParams, saveDiscount Discount) (*TargetInformation, error) {
	currency := params.Current.Currency()
	basePrice, err := params.Target.BasePrice(currency)
	if err != nil {
		return nil, err
	}

	previousAmount := params.Current.CurrentAmount()
	contributionChargeID := ""
	if charge, ok := params.Target.Charge(types.ChargeContribution); ok {
		contributionChargeID = charge.ID
	}

	subscriptionCharge, ok := params.Target.Charge(types.ChargeSubscription)
	if !ok {
		return nil, ierr.NewErrorf("target plan %s has no subscription charge", params.Target.ID).
			Mark(ierr.ErrSystem)
	}

	switch params.Mode {
	case types.SwitchModeBasePrice:
		// Carry the previous amount over; never price below catalog.
		total := decimal.Max(previousAmount, basePrice)
		return newTargetInformation(total, basePrice, params.Target.ID, subscriptionCharge.ID, contributionChargeID, nil)

	case types.SwitchModePriceOverride:
		if params.RequestedAmount == nil {
			return nil, ierr.NewError("no amount supplied for price override").
				WithHint("An amount is required when overriding the price").
				Mark(ierr.ErrValidation)
		}
		if params.RequestedAmount.LessThan(basePrice) {
			return nil, ierr.NewErrorf("requested amount %s is below the catalog price %s",
				params.RequestedAmount, basePrice).
				WithHintf("The new amount must be at least %s %s", basePrice, currency).
				Mark(ierr.ErrValidation)
		}
		return newTargetInformation(*params.RequestedAmount, basePrice, params.Target.ID, subscriptionCharge.ID, contributionChargeID, nil)

	case types.SwitchModeSave:
		return resolveSave(ctx, params, saveDiscount, basePrice, previousAmount, subscriptionCharge.ID, contributionChargeID)

	default:
		return nil, ierr.NewErrorf("unknown switch mode: %s", params.Mode).
			Mark(ierr.ErrValidation)
	}
}

// resolveSave prices the retention path. There is no silent fallback to
// the base price: the caller asked specifically for a discounted save, so
// every ineligibility is a validation failure.
func resolveSave(
	ctx context.Context,
	params ResolveParams,
	saveDiscount Discount,
	basePrice decimal.Decimal,
	previousAmount decimal.Decimal,
	subscriptionChargeID string,
	contributionChargeID string,
) (*TargetInformation, error) {
	if params.Target.Key != types.RatePlanAnnual {
		return nil, ierr.NewError("the save discount only applies to the annual plan").
			WithHint("The discount is only available on annual billing").
			Mark(ierr.ErrValidation)
	}

	multiplier := decimal.NewFromInt(1).Sub(saveDiscount.Percentage.Div(decimal.NewFromInt(100)))
	discountedPrice := basePrice.Mul(multiplier)

	if previousAmount.GreaterThan(discountedPrice) {
		return nil, ierr.NewErrorf("current amount %s already exceeds the discounted price %s",
			previousAmount, discountedPrice).
			WithHint("The discount would not reduce what you currently pay").
			Mark(ierr.ErrValidation)
	}

	eligible, err := params.Eligibility.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ierr.NewError("account is not eligible for the save discount").
			WithHint("This account cannot receive the discount").
			Mark(ierr.ErrValidation)
	}

	discount := saveDiscount
	return newTargetInformation(discountedPrice, discountedPrice, params.Target.ID, subscriptionChargeID, contributionChargeID, &discount)
}
