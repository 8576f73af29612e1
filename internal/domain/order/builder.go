package order

import (
	"time"

	"github.com/guardianapis/product-switch/internal/domain/productswitch"
	"github.com/guardianapis/product-switch/internal/domain/subscription"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/types"
)

// Standard trigger date names understood by the billing platform. All
// actions trigger on the order date.
var triggerDateNames = []string{"ContractEffective", "ServiceActivation", "CustomerAcceptance"}

// BuildParams is everything needed to assemble the switch order.
type BuildParams struct {
	OrderDate time.Time
	Preview   bool
	Current   *subscription.SinglePlan
	Target    *productswitch.TargetInformation
}

// BuildRequest assembles the ordered action list for a plan switch:
//
//  1. ChangePlan, always, removing the source plan and adding the target
//     with the contribution price override;
//  2. AddProduct for the discount plan, only when a discount was resolved;
//  3. TermsAndConditions + RenewSubscription, only when the current term
//     started before today and the request is not a preview. The platform
//     cannot preview a term change because unrelated future-dated
//     amendments may block it, so the preview and execute paths diverge
//     here on purpose.
func BuildRequest(params BuildParams) (*Request, error) {
	if params.Current == nil || params.Target == nil {
		return nil, ierr.NewError("order request needs both the current plan and the resolved target").
			Mark(ierr.ErrSystem)
	}

	orderDate := types.NewDate(params.OrderDate)
	triggers := triggerDates(orderDate)

	actions := []Action{
		{
			Type:         types.OrderActionChangePlan,
			TriggerDates: triggers,
			ChangePlan: &ChangePlan{
				ProductRatePlanID:  params.Current.RatePlan.RatePlan.ProductRatePlanID,
				SubType:            "Upgrade",
				NewProductRatePlan: newRatePlanOverride(params.Target),
			},
		},
	}

	if params.Target.Discount != nil {
		actions = append(actions, Action{
			Type:         types.OrderActionAddProduct,
			TriggerDates: triggers,
			AddProduct: &AddProduct{
				ProductRatePlanID: params.Target.Discount.ProductRatePlanID,
			},
		})
	}

	termStarted := params.Current.Subscription.TermStartDate.Before(types.StartOfDay(params.OrderDate))
	if termStarted && !params.Preview {
		actions = append(actions,
			Action{
				Type:         types.OrderActionTermsAndConditions,
				TriggerDates: triggers,
				TermsAndConditions: &TermsAndConditions{
					LastTerm: LastTerm{
						TermType:  "TERMED",
						StartDate: orderDate,
					},
				},
			},
			Action{
				Type:              types.OrderActionRenewSubscription,
				TriggerDates:      triggers,
				RenewSubscription: &RenewSubscription{},
			},
		)
	}

	return &Request{
		OrderDate:             orderDate.String(),
		ExistingAccountNumber: params.Current.Subscription.AccountNumber,
		Subscriptions: []Subscription{
			{
				SubscriptionNumber: params.Current.Subscription.SubscriptionNumber,
				OrderActions:       actions,
			},
		},
	}, nil
}

func newRatePlanOverride(target *productswitch.TargetInformation) RatePlanOverride {
	override := RatePlanOverride{
		ProductRatePlanID: target.ProductRatePlanID,
	}
	if target.ContributionCharge != nil {
		override.ChargeOverrides = []ChargeOverride{
			{
				ProductRatePlanChargeID: target.ContributionCharge.ProductRatePlanChargeID,
				Pricing: PriceOverride{
					RecurringFlatFee: RecurringFlatFee{
						ListPrice: target.ContributionCharge.Amount,
					},
				},
			},
		}
	}
	return override
}

func triggerDates(orderDate types.Date) []TriggerDate {
	dates := make([]TriggerDate, 0, len(triggerDateNames))
	for _, name := range triggerDateNames {
		dates = append(dates, TriggerDate{Name: name, TriggerDate: orderDate})
	}
	return dates
}
