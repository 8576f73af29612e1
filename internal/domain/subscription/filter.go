package subscription

import (
	"fmt"
	"time"

	"github.com/guardianapis/product-switch/internal/logger"
	"github.com/guardianapis/product-switch/internal/types"
)

// Filter applies the given retention policy to a keyed subscription and
// returns a new tree of the same shape with out-of-window plans and charges
// discarded. The input is never mutated, so filters can be chained or
// swapped without touching downstream code.
//
// A rate plan all of whose charges are discarded is itself discarded; the
// plan id and the per-charge reasons are logged for observability.
func Filter(log *logger.Logger, ks *KeyedSubscription, policy types.FilterPolicy, today time.Time) (*KeyedSubscription, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	refDate := types.NewDate(today)
	var cancellationDate *types.Date
	if ks.Subscription.IsCancelled() {
		cancellationDate = ks.Subscription.CancellationEffectiveDate
	}

	out := &KeyedSubscription{
		Subscription: ks.Subscription,
		Products:     make(map[types.ProductKey]map[types.RatePlanKey][]*KeyedRatePlan),
		NonCatalog:   ks.NonCatalog,
	}

	for productKey, plans := range ks.Products {
		for ratePlanKey, instances := range plans {
			for _, instance := range instances {
				kept, reasons := filterPlan(instance, policy, refDate, cancellationDate)
				if kept == nil {
					log.Infow("discarded rate plan during filtering",
						"rate_plan_id", instance.RatePlan.ID,
						"policy", policy,
						"reasons", reasons,
					)
					continue
				}

				if out.Products[productKey] == nil {
					out.Products[productKey] = make(map[types.RatePlanKey][]*KeyedRatePlan)
				}
				out.Products[productKey][ratePlanKey] = append(out.Products[productKey][ratePlanKey], kept)
			}
		}
	}

	return out, nil
}

// filterPlan returns the surviving copy of one plan instance, or nil with
// the drop reasons if nothing survives.
func filterPlan(instance *KeyedRatePlan, policy types.FilterPolicy, today types.Date, cancellationDate *types.Date) (*KeyedRatePlan, []string) {
	if policy == types.FilterPolicyActiveNonEnded && instance.RatePlan.LastChangeType == types.LastChangeTypeRemove {
		return nil, []string{"rate plan has been removed"}
	}

	kept := make(map[types.ChargeKey]*Charge, len(instance.Charges))
	var reasons []string

	for key, charge := range instance.Charges {
		if reason := chargeDropReason(charge, policy, today, cancellationDate); reason != "" {
			reasons = append(reasons, fmt.Sprintf("charge %s: %s", charge.ProductRatePlanChargeID, reason))
			continue
		}
		kept[key] = charge
	}

	if len(kept) == 0 {
		return nil, reasons
	}

	return &KeyedRatePlan{RatePlan: instance.RatePlan, Charges: kept}, nil
}

// chargeDropReason decides whether a charge falls outside its validity
// window under the given policy. Empty string means the charge is retained.
func chargeDropReason(charge *Charge, policy types.FilterPolicy, today types.Date, cancellationDate *types.Date) string {
	switch policy {
	case types.FilterPolicyActiveCurrent:
		// What the customer is on right now. For cancelled subscriptions
		// the charge's window must bracket the cancellation date instead.
		ref := today
		if cancellationDate != nil {
			ref = *cancellationDate
		}
		if charge.EffectiveStartDate.After(ref.Time) {
			return fmt.Sprintf("not effective until %s", charge.EffectiveStartDate)
		}
		if charge.EffectiveEndDate.Before(ref.Time) {
			return fmt.Sprintf("ended on %s", charge.EffectiveEndDate)
		}
		return ""

	case types.FilterPolicyActiveNonEnded:
		// Retains pending future amendments: the switch must act on the
		// plan as the customer is currently billed.
		if cancellationDate != nil {
			if !charge.EffectiveEndDate.Equal(cancellationDate.Time) {
				return fmt.Sprintf("does not end on the cancellation date %s", cancellationDate)
			}
			return ""
		}
		if !charge.EffectiveEndDate.After(today.Time) {
			return fmt.Sprintf("ended on or before %s", today)
		}
		return ""

	default:
		return ""
	}
}
