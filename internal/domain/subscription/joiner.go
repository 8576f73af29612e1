package subscription

import (
	"github.com/guardianapis/product-switch/internal/domain/catalog"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/types"
)

// KeyedSubscription is the semantically keyed join of a subscription
// against the catalog index: productKey → ratePlanKey → plan instances.
// The instance lists preserve the full switch history; no date filtering
// happens here. Plans whose product or plan id has no catalog match land
// in NonCatalog, which is only consulted for discount-plan detection.
type KeyedSubscription struct {
	Subscription *Subscription
	Products     map[types.ProductKey]map[types.RatePlanKey][]*KeyedRatePlan
	NonCatalog   []*RatePlan
}

// KeyedRatePlan is one plan instance with its charges keyed semantically.
type KeyedRatePlan struct {
	RatePlan *RatePlan
	Charges  map[types.ChargeKey]*Charge
}

// indexedRatePlan is the intermediate id-indexed form of one plan instance.
type indexedRatePlan struct {
	ratePlan *RatePlan
	charges  map[string]*Charge
}

// Join re-indexes the subscription's rate plans by the catalog's id scheme
// and left-joins them against the index. The join is deterministic and
// side-effect-free: running it twice on the same inputs yields structurally
// equal output.
//
// The join is deliberately asymmetric. Unknown product or plan ids are
// tolerated (the catalog is open-world) and collected in NonCatalog. A
// charge missing from the catalog under a matched plan is a hard error:
// the charge set of a recognized plan is closed-world, so a miss means the
// subscription and catalog versions have diverged.
func Join(sub *Subscription, idx *catalog.Index) (*KeyedSubscription, error) {
	indexed, err := indexRatePlans(sub)
	if err != nil {
		return nil, err
	}

	out := &KeyedSubscription{
		Subscription: sub,
		Products:     make(map[types.ProductKey]map[types.RatePlanKey][]*KeyedRatePlan),
	}

	for _, entry := range indexed {
		product, ok := idx.Product(entry.ratePlan.ProductID)
		if !ok {
			out.NonCatalog = append(out.NonCatalog, entry.ratePlan)
			continue
		}

		plan, ok := product.RatePlans[entry.ratePlan.ProductRatePlanID]
		if !ok {
			out.NonCatalog = append(out.NonCatalog, entry.ratePlan)
			continue
		}

		keyed, err := joinCharges(entry, plan)
		if err != nil {
			return nil, err
		}

		if out.Products[product.Key] == nil {
			out.Products[product.Key] = make(map[types.RatePlanKey][]*KeyedRatePlan)
		}
		out.Products[product.Key][plan.Key] = append(out.Products[product.Key][plan.Key], keyed)
	}

	return out, nil
}

func indexRatePlans(sub *Subscription) ([]*indexedRatePlan, error) {
	indexed := make([]*indexedRatePlan, 0, len(sub.RatePlans))
	for i := range sub.RatePlans {
		ratePlan := &sub.RatePlans[i]

		charges := make(map[string]*Charge, len(ratePlan.Charges))
		for j := range ratePlan.Charges {
			charge := &ratePlan.Charges[j]
			if _, exists := charges[charge.ProductRatePlanChargeID]; exists {
				return nil, ierr.NewErrorf("duplicate charge id %s in rate plan %s",
					charge.ProductRatePlanChargeID, ratePlan.ID).
					WithMessage("subscription data is corrupt upstream").
					Mark(ierr.ErrSystem)
			}
			charges[charge.ProductRatePlanChargeID] = charge
		}

		indexed = append(indexed, &indexedRatePlan{ratePlan: ratePlan, charges: charges})
	}
	return indexed, nil
}

func joinCharges(entry *indexedRatePlan, plan *catalog.PlanNode) (*KeyedRatePlan, error) {
	keyed := &KeyedRatePlan{
		RatePlan: entry.ratePlan,
		Charges:  make(map[types.ChargeKey]*Charge, len(entry.charges)),
	}

	for chargeID, charge := range entry.charges {
		catalogCharge, ok := plan.Charges[chargeID]
		if !ok {
			return nil, ierr.NewErrorf("charge %s of rate plan %s not found in catalog plan %s",
				chargeID, entry.ratePlan.ID, plan.ID).
				WithMessage("subscription and catalog versions have diverged").
				Mark(ierr.ErrSystem)
		}
		keyed.Charges[catalogCharge.Key] = charge
	}

	return keyed, nil
}
