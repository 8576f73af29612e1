package subscription

import (
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// SinglePlan is the one currently-relevant, catalog-recognized plan a
// subscription reduces to, together with its catalog keys and the
// subscription metadata downstream components need.
type SinglePlan struct {
	Subscription *Subscription
	RatePlan     *KeyedRatePlan
	ProductKey   types.ProductKey
	RatePlanKey  types.RatePlanKey
}

// ReduceToSingle flattens the filtered tree and enforces the central
// business invariant: after filtering, a subscription must present exactly
// one plan. Zero plans means we do not know what the customer is on; more
// than one means the switch cannot proceed safely.
func ReduceToSingle(ks *KeyedSubscription) (*SinglePlan, error) {
	type match struct {
		productKey  types.ProductKey
		ratePlanKey types.RatePlanKey
		plan        *KeyedRatePlan
	}

	var matches []match
	for productKey, plans := range ks.Products {
		for ratePlanKey, instances := range plans {
			for _, instance := range instances {
				matches = append(matches, match{
					productKey:  productKey,
					ratePlanKey: ratePlanKey,
					plan:        instance,
				})
			}
		}
	}

	switch len(matches) {
	case 1:
		m := matches[0]
		return &SinglePlan{
			Subscription: ks.Subscription,
			RatePlan:     m.plan,
			ProductKey:   m.productKey,
			RatePlanKey:  m.ratePlanKey,
		}, nil
	case 0:
		return nil, ierr.NewError("no known current product on subscription").
			WithHint("The subscription does not contain a product that can be switched").
			WithReportableDetails(map[string]any{
				"subscription_number": ks.Subscription.SubscriptionNumber,
			}).
			Mark(ierr.ErrValidation)
	default:
		ids := lo.Map(matches, func(m match, _ int) string {
			return m.plan.RatePlan.ID
		})
		return nil, ierr.NewErrorf("ambiguous current product: %d plans remain after filtering", len(matches)).
			WithHint("The subscription contains more than one current product").
			WithReportableDetails(map[string]any{
				"subscription_number": ks.Subscription.SubscriptionNumber,
				"count":               len(matches),
				"rate_plan_ids":       ids,
			}).
			Mark(ierr.ErrValidation)
	}
}

// CurrentAmount is the sum of the plan's charge prices: what the customer
// currently pays per billing period.
func (p *SinglePlan) CurrentAmount() decimal.Decimal {
	total := decimal.Zero
	for _, charge := range p.RatePlan.Charges {
		total = total.Add(charge.Price)
	}
	return total
}

// Currency returns the currency shared by the plan's charges.
func (p *SinglePlan) Currency() string {
	for _, charge := range p.RatePlan.Charges {
		return charge.Currency
	}
	return ""
}

// BillingPeriod returns the billing period shared by the plan's charges.
func (p *SinglePlan) BillingPeriod() types.BillingPeriod {
	for _, charge := range p.RatePlan.Charges {
		return charge.BillingPeriod
	}
	return ""
}

// ChargeIDs lists the plan's charge ids, used to match refund line items in
// a preview invoice.
func (p *SinglePlan) ChargeIDs() []string {
	ids := make([]string, 0, len(p.RatePlan.Charges))
	for _, charge := range p.RatePlan.Charges {
		ids = append(ids, charge.ProductRatePlanChargeID)
	}
	return ids
}

// ChargedThroughDate returns the latest charged-through date among the
// plan's charges, if any charge carries one.
func (p *SinglePlan) ChargedThroughDate() *types.Date {
	var latest *types.Date
	for _, charge := range p.RatePlan.Charges {
		if charge.ChargedThroughDate == nil {
			continue
		}
		if latest == nil || charge.ChargedThroughDate.After(latest.Time) {
			latest = charge.ChargedThroughDate
		}
	}
	return latest
}
