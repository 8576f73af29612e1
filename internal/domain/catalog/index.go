package catalog

import (
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/shopspring/decimal"
)

// Index is the id-keyed and key-keyed view over a parsed catalog. It is
// built once per catalog fetch and never mutated afterwards; callers share
// it by reference across requests.
type Index struct {
	products   map[string]*ProductNode
	plansByKey map[types.ProductKey]map[types.RatePlanKey]*PlanNode
}

// ProductNode is a recognized catalog product with its recognized plans
// indexed by id.
type ProductNode struct {
	ID        string
	Key       types.ProductKey
	RatePlans map[string]*PlanNode
}

// PlanNode is a recognized rate plan with its charges indexed both by id
// and by semantic key.
type PlanNode struct {
	ID           string
	Key          types.RatePlanKey
	ProductKey   types.ProductKey
	Charges      map[string]*ChargeNode
	chargesByKey map[types.ChargeKey]*ChargeNode
}

// ChargeNode is a catalog charge with per-currency pricing.
type ChargeNode struct {
	ID      string
	Key     types.ChargeKey
	Pricing map[string]decimal.Decimal
}

// BuildIndex walks the raw catalog and produces the Index. Products and
// rate plans with unrecognized names are omitted together with their
// subtrees. An unrecognized charge name under a recognized plan is fatal:
// it means the plan's charges are no longer aligned with what the code
// expects. Two charges in one plan mapping to the same semantic key make
// the catalog ambiguous and are equally fatal.
func BuildIndex(c *Catalog) (*Index, error) {
	idx := &Index{
		products:   make(map[string]*ProductNode),
		plansByKey: make(map[types.ProductKey]map[types.RatePlanKey]*PlanNode),
	}

	for _, product := range c.Products {
		productKey, ok := productKeyByName[product.Name]
		if !ok {
			continue
		}

		node := &ProductNode{
			ID:        product.ID,
			Key:       productKey,
			RatePlans: make(map[string]*PlanNode),
		}

		for _, plan := range product.RatePlans {
			planKey, ok := ratePlanKeyByName[plan.Name]
			if !ok {
				continue
			}

			planNode, err := buildPlanNode(plan, planKey, productKey)
			if err != nil {
				return nil, err
			}

			node.RatePlans[plan.ID] = planNode
			if idx.plansByKey[productKey] == nil {
				idx.plansByKey[productKey] = make(map[types.RatePlanKey]*PlanNode)
			}
			idx.plansByKey[productKey][planKey] = planNode
		}

		idx.products[product.ID] = node
	}

	return idx, nil
}

func buildPlanNode(plan RatePlan, planKey types.RatePlanKey, productKey types.ProductKey) (*PlanNode, error) {
	node := &PlanNode{
		ID:           plan.ID,
		Key:          planKey,
		ProductKey:   productKey,
		Charges:      make(map[string]*ChargeNode),
		chargesByKey: make(map[types.ChargeKey]*ChargeNode),
	}

	for _, charge := range plan.Charges {
		chargeKey, ok := chargeKeyByName[charge.Name]
		if !ok {
			return nil, ierr.NewErrorf("unrecognized charge name %q in catalog", charge.Name).
				WithReportableDetails(map[string]any{
					"product_rate_plan_id": plan.ID,
					"charge_id":            charge.ID,
				}).
				Mark(ierr.ErrSystem)
		}

		if _, exists := node.chargesByKey[chargeKey]; exists {
			return nil, ierr.NewErrorf("ambiguous catalog: two charges map to key %q", chargeKey).
				WithReportableDetails(map[string]any{
					"product_rate_plan_id": plan.ID,
					"charge_id":            charge.ID,
				}).
				Mark(ierr.ErrSystem)
		}

		pricing := make(map[string]decimal.Decimal, len(charge.Pricing))
		for _, price := range charge.Pricing {
			pricing[price.Currency] = price.Price
		}

		chargeNode := &ChargeNode{
			ID:      charge.ID,
			Key:     chargeKey,
			Pricing: pricing,
		}
		node.Charges[charge.ID] = chargeNode
		node.chargesByKey[chargeKey] = chargeNode
	}

	return node, nil
}

// Product looks up a recognized product node by catalog id.
func (i *Index) Product(id string) (*ProductNode, bool) {
	node, ok := i.products[id]
	return node, ok
}

// Plan looks up a recognized plan node by its semantic keys.
func (i *Index) Plan(product types.ProductKey, ratePlan types.RatePlanKey) (*PlanNode, bool) {
	plans, ok := i.plansByKey[product]
	if !ok {
		return nil, false
	}
	node, ok := plans[ratePlan]
	return node, ok
}

// Charge looks up one of the plan's charges by semantic key.
func (n *PlanNode) Charge(key types.ChargeKey) (*ChargeNode, bool) {
	charge, ok := n.chargesByKey[key]
	return charge, ok
}

// BasePrice is the plan's subscription charge price in the given currency.
func (n *PlanNode) BasePrice(currency string) (decimal.Decimal, error) {
	charge, ok := n.Charge(types.ChargeSubscription)
	if !ok {
		return decimal.Zero, ierr.NewErrorf("plan %s has no subscription charge", n.ID).
			Mark(ierr.ErrSystem)
	}
	return charge.Price(currency)
}

// Price returns the charge's catalog price in the given currency.
func (c *ChargeNode) Price(currency string) (decimal.Decimal, error) {
	price, ok := c.Pricing[currency]
	if !ok {
		return decimal.Zero, ierr.NewErrorf("charge %s has no price in currency %s", c.ID, currency).
			Mark(ierr.ErrSystem)
	}
	return price, nil
}
