package service

import (
	"context"
	"fmt"
	"github.com/cockroachdb/errors"
	"testing"
	"time"

	"github.com/guardianapis/product-switch/internal/api/dto"
	"github.com/guardianapis/product-switch/internal/config"
	"github.com/guardianapis/product-switch/internal/domain/invoice"
	"github.com/guardianapis/product-switch/internal/domain/subscription"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/logger"
	"github.com/guardianapis/product-switch/internal/notification"
	"github.com/guardianapis/product-switch/internal/testutil"
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ProductSwitchServiceSuite struct {
	suite.Suite
	ctx       context.Context
	cfg       *config.Configuration
	billing   *testutil.StubBillingClient
	publisher *testutil.InMemoryPublisher
	service   ProductSwitchService
}

func TestProductSwitchServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductSwitchServiceSuite))
}

func (s *ProductSwitchServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = config.GetDefaultConfig()
	s.billing = &testutil.StubBillingClient{
		Subscription:    testutil.NewMonthlyContribution(decimal.NewFromInt(5)),
		Account:         testutil.NewAccount(),
		OrderPreview:    s.monthlyOrderPreview(),
		OrderNumber:     "O-00042",
		UpcomingPreview: &invoice.Preview{},
	}
	s.publisher = &testutil.InMemoryPublisher{}

	s.service = NewProductSwitchService(NewServiceParams(
		logger.NewNopLogger(),
		s.cfg,
		s.billing,
		&testutil.StaticCatalogService{Index: testutil.NewIndex()},
		s.publisher,
		NewRegistry(s.cfg),
	))
}

// monthlyOrderPreview is the invoice the platform would produce for a
// monthly contribution → Supporter Plus switch: a prorated refund of the
// contribution plus the first Supporter Plus period.
func (s *ProductSwitchServiceSuite) monthlyOrderPreview() *invoice.Preview {
	return &invoice.Preview{
		Amount: decimal.RequireFromString("9.50"),
		Items: []invoice.Item{
			{
				ChargeID:         testutil.ContributionMonthlyChargeID,
				ServiceStartDate: testutil.MustDate("2026-08-31"),
				ServiceEndDate:   testutil.MustDate("2026-09-14"),
				AmountMinorUnits: -250,
			},
			{
				ChargeID:            testutil.SupporterPlusMonthlySubChargeID,
				ServiceStartDate:    testutil.MustDate("2026-08-31"),
				ServiceEndDate:      testutil.MustDate("2026-09-29"),
				AmountMinorUnits:    950,
				UnitPriceMinorUnits: 1200,
			},
			{
				ChargeID:         testutil.SupporterPlusMonthlyContribChargeID,
				ServiceStartDate: testutil.MustDate("2026-08-31"),
				ServiceEndDate:   testutil.MustDate("2026-09-29"),
			},
		},
	}
}

func (s *ProductSwitchServiceSuite) annualSaveOrderPreview() *invoice.Preview {
	return &invoice.Preview{
		Amount: decimal.RequireFromString("50.00"),
		Items: []invoice.Item{
			{
				ChargeID:         testutil.ContributionAnnualChargeID,
				ServiceStartDate: testutil.MustDate("2026-08-31"),
				ServiceEndDate:   testutil.MustDate("2027-01-14"),
				AmountMinorUnits: -1000,
			},
			{
				ChargeID:            testutil.SupporterPlusAnnualSubChargeID,
				ServiceStartDate:    testutil.MustDate("2026-08-31"),
				ServiceEndDate:      testutil.MustDate("2027-08-30"),
				AmountMinorUnits:    6000,
				UnitPriceMinorUnits: 12000,
			},
			{
				ChargeID:         testutil.SupporterPlusAnnualContribChargeID,
				ServiceStartDate: testutil.MustDate("2026-08-31"),
				ServiceEndDate:   testutil.MustDate("2027-08-30"),
			},
			{
				ChargeID:         s.cfg.SaveDiscount.ProductRatePlanChargeID,
				ServiceStartDate: testutil.MustDate("2026-08-31"),
				ServiceEndDate:   testutil.MustDate("2027-08-30"),
				AmountMinorUnits: -6000,
			},
		},
	}
}

func (s *ProductSwitchServiceSuite) TestPreviewBasePrice() {
	resp, err := s.service.Preview(s.ctx, testutil.SubscriptionNumber, &dto.SwitchRequest{
		TargetProduct: "supporter_plus",
		Mode:          types.SwitchModeBasePrice,
		Preview:       true,
	})
	s.Require().NoError(err)

	s.True(resp.AmountPayableToday.Equal(decimal.RequireFromString("9.50")))
	s.True(resp.ProratedRefundAmount.Equal(decimal.RequireFromString("2.50")))
	s.True(resp.TargetCatalogPrice.Equal(decimal.NewFromInt(12)))
	s.Equal("2026-09-30", resp.NextPaymentDate.String())
	s.Nil(resp.Discount)

	s.Require().Len(s.billing.PreviewedOrders, 1)
	s.Len(s.billing.PreviewedOrders[0].Subscriptions[0].OrderActions, 1,
		"a preview must not carry term actions")
	s.Zero(s.billing.UpcomingCalls, "the base price mode must not fetch the upcoming invoice")
	s.Empty(s.billing.ExecutedOrders)
}

func (s *ProductSwitchServiceSuite) TestPreviewSaveAnnual() {
	s.billing.Subscription = testutil.NewAnnualContribution(decimal.NewFromInt(50))
	s.billing.OrderPreview = s.annualSaveOrderPreview()

	resp, err := s.service.Preview(s.ctx, testutil.SubscriptionNumber, &dto.SwitchRequest{
		TargetProduct: "supporter_plus",
		Mode:          types.SwitchModeSave,
		Preview:       true,
	})
	s.Require().NoError(err)

	s.Require().NotNil(resp.Discount)
	s.True(resp.Discount.DiscountedPrice.Equal(decimal.NewFromInt(60)))
	s.Equal(1, resp.Discount.UpToPeriods)
	s.Equal(types.UpToPeriodsTypeYears, resp.Discount.UpToPeriodsType)
	s.True(resp.Discount.DiscountPercentage.Equal(decimal.NewFromInt(50)))

	s.Equal(1, s.billing.UpcomingCalls)
	s.Require().Len(s.billing.PreviewedOrders, 1)
	s.Len(s.billing.PreviewedOrders[0].Subscriptions[0].OrderActions, 2,
		"the save path adds the discount product")
}

func (s *ProductSwitchServiceSuite) TestPreviewRejectsIneligibleSave() {
	s.billing.Subscription = testutil.NewAnnualContribution(decimal.NewFromInt(50))
	s.billing.UpcomingPreview = &invoice.Preview{Items: []invoice.Item{
		{ChargeID: "chg_existing_discount", AmountMinorUnits: -500},
	}}

	_, err := s.service.Preview(s.ctx, testutil.SubscriptionNumber, &dto.SwitchRequest{
		TargetProduct: "supporter_plus",
		Mode:          types.SwitchModeSave,
		Preview:       true,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ierr.ErrValidation))
	s.Empty(s.billing.PreviewedOrders)
}

func (s *ProductSwitchServiceSuite) TestPreviewToleratesNoRefundOnChargedThroughDate() {
	today := types.NewDate(time.Now().UTC())
	s.billing.Subscription.RatePlans[0].Charges[0].ChargedThroughDate = &today

	preview := s.monthlyOrderPreview()
	preview.Items = preview.Items[1:]
	s.billing.OrderPreview = preview

	resp, err := s.service.Preview(s.ctx, testutil.SubscriptionNumber, &dto.SwitchRequest{
		TargetProduct: "supporter_plus",
		Mode:          types.SwitchModeBasePrice,
		Preview:       true,
	})
	s.Require().NoError(err)
	s.True(resp.ProratedRefundAmount.IsZero())
}

func (s *ProductSwitchServiceSuite) TestSwitchExecutesOrderAndNotifies() {
	resp, err := s.service.Switch(s.ctx, testutil.SubscriptionNumber, &dto.SwitchRequest{
		TargetProduct: "supporter_plus",
		Mode:          types.SwitchModeBasePrice,
		CsrUserID:     "csr-7",
		CaseID:        "case-99",
	})
	s.Require().NoError(err)
	s.Contains(resp.Message, testutil.SubscriptionNumber)

	s.Require().Len(s.billing.ExecutedOrders, 1)
	s.Empty(s.billing.PreviewedOrders)
	// ChangePlan plus the term restart: the fixture's term started in 2024.
	s.Len(s.billing.ExecutedOrders[0].Subscriptions[0].OrderActions, 3)

	s.Require().Len(s.publisher.Messages, 2)
	messageTypes := []notification.MessageType{s.publisher.Messages[0].Type, s.publisher.Messages[1].Type}
	s.Contains(messageTypes, notification.MessageTypeEmail)
	s.Contains(messageTypes, notification.MessageTypeSupporterData)
}

func (s *ProductSwitchServiceSuite) TestSwitchSurvivesNotificationFailure() {
	s.publisher.Err = fmt.Errorf("queue unavailable")

	_, err := s.service.Switch(s.ctx, testutil.SubscriptionNumber, &dto.SwitchRequest{
		TargetProduct: "supporter_plus",
		Mode:          types.SwitchModeBasePrice,
	})
	s.Require().NoError(err, "a failed notification must not fail an executed switch")
	s.Len(s.billing.ExecutedOrders, 1)
}

func (s *ProductSwitchServiceSuite) TestRejectsUnknownTargetProduct() {
	_, err := s.service.Preview(s.ctx, testutil.SubscriptionNumber, &dto.SwitchRequest{
		TargetProduct: "newspaper",
		Mode:          types.SwitchModeBasePrice,
		Preview:       true,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ierr.ErrValidation))
	s.Empty(s.billing.PreviewedOrders)
}

func (s *ProductSwitchServiceSuite) TestRejectsUnsupportedSwitchCombination() {
	s.billing.Subscription = &subscription.Subscription{
		SubscriptionNumber: testutil.SubscriptionNumber,
		AccountNumber:      testutil.AccountNumber,
		Status:             types.SubscriptionStatusActive,
		TermStartDate:      testutil.MustDate("2024-01-15"),
		RatePlans: []subscription.RatePlan{
			{
				ID:                "rp_splus_monthly",
				ProductID:         testutil.SupporterPlusProductID,
				ProductRatePlanID: testutil.SupporterPlusMonthlyPlanID,
				ProductName:       "Supporter Plus",
				Charges: []subscription.Charge{
					{
						ProductRatePlanChargeID: testutil.SupporterPlusMonthlySubChargeID,
						Name:                    "Subscription",
						Price:                   decimal.NewFromInt(12),
						Currency:                "GBP",
						BillingPeriod:           types.BILLING_PERIOD_MONTHLY,
						EffectiveStartDate:      testutil.MustDate("2024-01-15"),
						EffectiveEndDate:        testutil.MustDate("2099-01-15"),
					},
				},
			},
		},
	}

	_, err := s.service.Preview(s.ctx, testutil.SubscriptionNumber, &dto.SwitchRequest{
		TargetProduct: "supporter_plus",
		Mode:          types.SwitchModeBasePrice,
		Preview:       true,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ierr.ErrValidation))
	s.Contains(err.Error(), "switch not available")
}

func (s *ProductSwitchServiceSuite) TestRejectsOverrideWithoutAmount() {
	_, err := s.service.Preview(s.ctx, testutil.SubscriptionNumber, &dto.SwitchRequest{
		TargetProduct: "supporter_plus",
		Mode:          types.SwitchModePriceOverride,
		Preview:       true,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ierr.ErrValidation))
}

func (s *ProductSwitchServiceSuite) TestPropagatesBillingFailure() {
	s.billing.SubscriptionErr = ierr.NewError("billing platform unavailable").Mark(ierr.ErrHTTPClient)

	_, err := s.service.Preview(s.ctx, testutil.SubscriptionNumber, &dto.SwitchRequest{
		TargetProduct: "supporter_plus",
		Mode:          types.SwitchModeBasePrice,
		Preview:       true,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ierr.ErrHTTPClient))
}
