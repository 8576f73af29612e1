package productswitch

import (
	"context"

	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/types"
)

// SwitchKey identifies one supported switch: from a source product/plan to
// a target product/plan.
type SwitchKey struct {
	SourceProduct types.ProductKey
	SourcePlan    types.RatePlanKey
	TargetProduct types.ProductKey
	TargetPlan    types.RatePlanKey
}

// Handler resolves the target pricing for one registered switch.
type Handler func(ctx context.Context, params ResolveParams) (*TargetInformation, error)

// Registry maps switch keys to handlers. It replaces compile-time
// exhaustiveness with a runtime table validated at startup.
type Registry struct {
	handlers map[SwitchKey]Handler
}

// NewRegistry builds the registry of supported switches. Today that is
// recurring contribution → Supporter Plus, within the same billing period.
func NewRegistry(saveDiscount Discount) *Registry {
	contributionToSupporterPlus := func(ctx context.Context, params ResolveParams) (*TargetInformation, error) {
		return resolveToTarget(ctx, params, saveDiscount)
	}

	return &Registry{
		handlers: map[SwitchKey]Handler{
			{
				SourceProduct: types.ProductContribution,
				SourcePlan:    types.RatePlanMonthly,
				TargetProduct: types.ProductSupporterPlus,
				TargetPlan:    types.RatePlanMonthly,
			}: contributionToSupporterPlus,
			{
				SourceProduct: types.ProductContribution,
				SourcePlan:    types.RatePlanAnnual,
				TargetProduct: types.ProductSupporterPlus,
				TargetPlan:    types.RatePlanAnnual,
			}: contributionToSupporterPlus,
		},
	}
}

// Validate checks the registered keys at startup: every component of every
// key must be a known semantic key and every handler must be non-nil.
func (r *Registry) Validate() error {
	for key, handler := range r.handlers {
		if handler == nil {
			return ierr.NewErrorf("nil handler registered for switch %+v", key).
				Mark(ierr.ErrSystem)
		}
		if err := key.SourceProduct.Validate(); err != nil {
			return err
		}
		if err := key.TargetProduct.Validate(); err != nil {
			return err
		}
		if err := key.SourcePlan.Validate(); err != nil {
			return err
		}
		if err := key.TargetPlan.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Resolve dispatches to the handler registered for the given key. An
// unregistered combination is a caller fault, not a server fault.
func (r *Registry) Resolve(ctx context.Context, key SwitchKey, params ResolveParams) (*TargetInformation, error) {
	handler, ok := r.handlers[key]
	if !ok {
		return nil, ierr.NewErrorf("switch not available from %s/%s to %s/%s",
			key.SourceProduct, key.SourcePlan, key.TargetProduct, key.TargetPlan).
			WithHint("Switching to this product is not supported").
			WithReportableDetails(map[string]any{
				"source_product": key.SourceProduct,
				"source_plan":    key.SourcePlan,
				"target_product": key.TargetProduct,
				"target_plan":    key.TargetPlan,
			}).
			Mark(ierr.ErrValidation)
	}
	return handler(ctx, params)
}
