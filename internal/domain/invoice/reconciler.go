package invoice

import (
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ReconcileParams names the charge ids the order request was built from,
// so the previewed invoice can be checked line by line against what was
// actually asked for.
type ReconcileParams struct {
	Preview *Preview

	// Charge ids of the plan being switched away from; their negated line
	// items make up the prorated refund.
	SourceChargeIDs []string

	// RefundExpected is false only when the switch date coincides with the
	// source charge's charged-through date, in which case the platform
	// legitimately produces no refund items.
	RefundExpected bool

	TargetSubscriptionChargeID string
	TargetContributionChargeID string

	// DiscountChargeID is set iff a discount was requested; its line item
	// must then be present.
	DiscountChargeID string
}

// Result is the normalized quote reconciled from a preview invoice.
type Result struct {
	AmountPayableToday   decimal.Decimal
	ProratedRefundAmount decimal.Decimal
	TargetCatalogPrice   decimal.Decimal
	NextPaymentDate      types.Date
	DiscountedPrice      *decimal.Decimal
}

// Reconcile maps the billing platform's preview invoice back into refund
// and price figures. Any shape the response can legally take is handled
// here; everything else means the response does not match the order we
// sent and is surfaced as an internal failure.
func Reconcile(params ReconcileParams) (*Result, error) {
	itemsByCharge, err := groupItems(params.Preview)
	if err != nil {
		return nil, err
	}

	refund, err := reconcileRefund(itemsByCharge, params)
	if err != nil {
		return nil, err
	}

	targetItem, ok := itemsByCharge[params.TargetSubscriptionChargeID]
	if !ok {
		return nil, ierr.NewErrorf("preview invoice is missing the target subscription charge %s",
			params.TargetSubscriptionChargeID).
			WithMessage("preview response does not match the order request").
			Mark(ierr.ErrSystem)
	}

	targetPrice := targetItem.UnitPriceDecimal()
	if params.TargetContributionChargeID != "" {
		if contributionItem, ok := itemsByCharge[params.TargetContributionChargeID]; ok {
			targetPrice = targetPrice.Add(contributionItem.UnitPriceDecimal())
		}
	}

	result := &Result{
		AmountPayableToday:   params.Preview.Amount,
		ProratedRefundAmount: refund,
		TargetCatalogPrice:   targetPrice,
		NextPaymentDate:      types.NewDate(targetItem.ServiceEndDate.AddDate(0, 0, 1)),
	}

	if params.DiscountChargeID != "" {
		discountItem, ok := itemsByCharge[params.DiscountChargeID]
		if !ok {
			return nil, ierr.NewErrorf("preview invoice is missing the requested discount charge %s",
				params.DiscountChargeID).
				WithMessage("preview response does not match the order request").
				Mark(ierr.ErrSystem)
		}
		discounted := targetItem.UnitPriceDecimal().Add(discountItem.AmountDecimal())
		result.DiscountedPrice = &discounted
	}

	return result, nil
}

// groupItems indexes line items by charge id. A duplicate charge id within
// one invoice is a hard error.
func groupItems(preview *Preview) (map[string]Item, error) {
	itemsByCharge := make(map[string]Item, len(preview.Items))
	for _, item := range preview.Items {
		if _, exists := itemsByCharge[item.ChargeID]; exists {
			return nil, ierr.NewErrorf("duplicate charge %s in preview invoice", item.ChargeID).
				WithHint("The preview invoice contains conflicting line items").
				Mark(ierr.ErrValidation)
		}
		itemsByCharge[item.ChargeID] = item
	}
	return itemsByCharge, nil
}

// reconcileRefund sums the negated source line items. A count mismatch is
// tolerated only when nothing matched and no refund was expected.
func reconcileRefund(itemsByCharge map[string]Item, params ReconcileParams) (decimal.Decimal, error) {
	matched := lo.Filter(params.SourceChargeIDs, func(id string, _ int) bool {
		_, ok := itemsByCharge[id]
		return ok
	})

	if len(matched) != len(params.SourceChargeIDs) {
		if len(matched) == 0 && !params.RefundExpected {
			return decimal.Zero, nil
		}
		return decimal.Zero, ierr.NewErrorf("expected %d source charge items in preview invoice, found %d",
			len(params.SourceChargeIDs), len(matched)).
			WithMessage("preview response does not match the order request").
			WithReportableDetails(map[string]any{
				"source_charge_ids": params.SourceChargeIDs,
				"matched":           matched,
			}).
			Mark(ierr.ErrSystem)
	}

	refund := decimal.Zero
	for _, id := range matched {
		refund = refund.Add(itemsByCharge[id].AmountDecimal())
	}
	return refund.Neg(), nil
}
