package service

import (
	"context"
	"fmt"
	"time"

	"github.com/guardianapis/product-switch/internal/api/dto"
	"github.com/guardianapis/product-switch/internal/domain/catalog"
	"github.com/guardianapis/product-switch/internal/domain/invoice"
	"github.com/guardianapis/product-switch/internal/domain/order"
	"github.com/guardianapis/product-switch/internal/domain/productswitch"
	"github.com/guardianapis/product-switch/internal/domain/subscription"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/notification"
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/sourcegraph/conc/pool"
)

// ProductSwitchService reconciles a subscription against the catalog and
// previews or executes a switch of its single current plan.
type ProductSwitchService interface {
	Preview(ctx context.Context, subscriptionNumber string, req *dto.SwitchRequest) (*dto.PreviewResponse, error)
	Switch(ctx context.Context, subscriptionNumber string, req *dto.SwitchRequest) (*dto.SwitchResponse, error)
}

type productSwitchService struct {
	ServiceParams
}

func NewProductSwitchService(params ServiceParams) ProductSwitchService {
	return &productSwitchService{ServiceParams: params}
}

// resolved carries everything the preview and execute paths share.
type resolved struct {
	index   *catalog.Index
	account *subscription.Account
	current *subscription.SinglePlan
	target  *productswitch.TargetInformation
	order   *order.Request
	now     time.Time
}

func (s *productSwitchService) Preview(ctx context.Context, subscriptionNumber string, req *dto.SwitchRequest) (*dto.PreviewResponse, error) {
	r, err := s.resolve(ctx, subscriptionNumber, req, true)
	if err != nil {
		return nil, err
	}

	previewInvoice, err := s.Billing.PreviewOrder(ctx, r.order)
	if err != nil {
		return nil, err
	}

	return s.reconcilePreview(r, previewInvoice)
}

func (s *productSwitchService) Switch(ctx context.Context, subscriptionNumber string, req *dto.SwitchRequest) (*dto.SwitchResponse, error) {
	r, err := s.resolve(ctx, subscriptionNumber, req, false)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.Billing.ExecuteOrder(ctx, r.order)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("executed product switch",
		"subscription_number", subscriptionNumber,
		"order_number", orderNumber,
		"target_product", req.TargetProduct,
		"mode", req.Mode,
	)

	s.notify(ctx, r, req)

	return &dto.SwitchResponse{
		Message: fmt.Sprintf("switched subscription %s to %s", subscriptionNumber, req.TargetProduct),
	}, nil
}

// resolve runs the shared pipeline: fetch catalog and subscription
// concurrently, join, filter, reduce to the single current plan, resolve
// the switch target and build the order request.
func (s *productSwitchService) resolve(ctx context.Context, subscriptionNumber string, req *dto.SwitchRequest, preview bool) (*resolved, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		index   *catalog.Index
		sub     *subscription.Subscription
		account *subscription.Account
	)

	// The two external reads are independent; issue them concurrently.
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		index, err = s.Catalog.GetIndex(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		sub, err = s.Billing.GetSubscription(ctx, subscriptionNumber)
		if err != nil {
			return err
		}
		account, err = s.Billing.GetAccount(ctx, sub.AccountNumber)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	joined, err := subscription.Join(sub, index)
	if err != nil {
		return nil, err
	}

	// The switch must act on the plan as the customer is currently billed,
	// including pending amendments, hence activeNonEnded.
	filtered, err := subscription.Filter(s.Logger, joined, types.FilterPolicyActiveNonEnded, now)
	if err != nil {
		return nil, err
	}

	current, err := subscription.ReduceToSingle(filtered)
	if err != nil {
		return nil, err
	}

	targetProduct := req.TargetProductKey()
	targetPlan, ok := index.Plan(targetProduct, current.RatePlanKey)
	if !ok {
		return nil, ierr.NewErrorf("no catalog plan for %s/%s", targetProduct, current.RatePlanKey).
			WithHint("Switching to this product is not supported").
			Mark(ierr.ErrValidation)
	}

	eligibility := productswitch.NewDeferred(func(ctx context.Context) (bool, error) {
		upcoming, err := s.Billing.PreviewUpcomingInvoice(ctx, account.AccountNumber)
		if err != nil {
			return false, err
		}
		return productswitch.EligibleForSave(account, upcoming), nil
	})

	target, err := s.Registry.Resolve(ctx, productswitch.SwitchKey{
		SourceProduct: current.ProductKey,
		SourcePlan:    current.RatePlanKey,
		TargetProduct: targetProduct,
		TargetPlan:    current.RatePlanKey,
	}, productswitch.ResolveParams{
		Mode:            req.Mode,
		Current:         current,
		Target:          targetPlan,
		RequestedAmount: req.NewAmount,
		Eligibility:     eligibility,
	})
	if err != nil {
		return nil, err
	}

	orderRequest, err := order.BuildRequest(order.BuildParams{
		OrderDate: now,
		Preview:   preview,
		Current:   current,
		Target:    target,
	})
	if err != nil {
		return nil, err
	}

	return &resolved{
		index:   index,
		account: account,
		current: current,
		target:  target,
		order:   orderRequest,
		now:     now,
	}, nil
}

func (s *productSwitchService) reconcilePreview(r *resolved, previewInvoice *invoice.Preview) (*dto.PreviewResponse, error) {
	// No refund is expected only when the switch date coincides with the
	// source charge's charged-through date.
	refundExpected := true
	if ctd := r.current.ChargedThroughDate(); ctd != nil && ctd.Equal(types.NewDate(r.now).Time) {
		refundExpected = false
	}

	contributionChargeID := ""
	if r.target.ContributionCharge != nil {
		contributionChargeID = r.target.ContributionCharge.ProductRatePlanChargeID
	}
	discountChargeID := ""
	if r.target.Discount != nil {
		discountChargeID = r.target.Discount.ProductRatePlanChargeID
	}

	result, err := invoice.Reconcile(invoice.ReconcileParams{
		Preview:                    previewInvoice,
		SourceChargeIDs:            r.current.ChargeIDs(),
		RefundExpected:             refundExpected,
		TargetSubscriptionChargeID: r.target.SubscriptionChargeID,
		TargetContributionChargeID: contributionChargeID,
		DiscountChargeID:           discountChargeID,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.PreviewResponse{
		AmountPayableToday:   result.AmountPayableToday,
		ProratedRefundAmount: result.ProratedRefundAmount,
		TargetCatalogPrice:   result.TargetCatalogPrice,
		NextPaymentDate:      result.NextPaymentDate,
	}

	if r.target.Discount != nil {
		discountedPrice := r.target.ActualTotalPrice
		if result.DiscountedPrice != nil {
			discountedPrice = *result.DiscountedPrice
		}
		resp.Discount = &dto.DiscountResponse{
			DiscountedPrice:    discountedPrice,
			UpToPeriods:        r.target.Discount.UpToPeriods,
			UpToPeriodsType:    r.target.Discount.UpToPeriodsType,
			DiscountPercentage: r.target.Discount.Percentage,
		}
	}

	return resp, nil
}

// notify publishes the post-switch messages. A failed notification is
// logged but never fails the switch: the order has already been executed.
func (s *productSwitchService) notify(ctx context.Context, r *resolved, req *dto.SwitchRequest) {
	email := notification.NewMessage(notification.MessageTypeEmail, notification.SwitchConfirmationEmail{
		EmailAddress:       r.account.EmailAddress,
		FirstName:          r.account.FirstName,
		LastName:           r.account.LastName,
		SubscriptionNumber: r.current.Subscription.SubscriptionNumber,
		TargetProduct:      req.TargetProduct,
		Amount:             r.target.ActualTotalPrice.String(),
		Currency:           r.current.Currency(),
		BillingPeriod:      r.current.BillingPeriod().String(),
	})
	if err := s.Publisher.Publish(ctx, email); err != nil {
		s.Logger.Errorw("failed to publish switch confirmation email", "error", err)
	}

	supporterData := notification.NewMessage(notification.MessageTypeSupporterData, notification.SupporterDataUpdate{
		IdentityID:         r.account.IdentityID,
		SubscriptionNumber: r.current.Subscription.SubscriptionNumber,
		Product:            req.TargetProduct,
		RatePlan:           r.current.RatePlanKey.String(),
		CsrUserID:          req.CsrUserID,
		CaseID:             req.CaseID,
	})
	if err := s.Publisher.Publish(ctx, supporterData); err != nil {
		s.Logger.Errorw("failed to publish supporter data update", "error", err)
	}
}
