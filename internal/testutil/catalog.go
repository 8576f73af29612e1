package testutil

import (
	"context"

	"github.com/guardianapis/product-switch/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// Catalog ids shared by the fixtures and the tests that assert on them.
const (
	ContributionProductID       = "prod_contrib"
	ContributionMonthlyPlanID   = "plan_contrib_monthly"
	ContributionMonthlyChargeID = "chg_contrib_monthly"
	ContributionAnnualPlanID    = "plan_contrib_annual"
	ContributionAnnualChargeID  = "chg_contrib_annual"

	SupporterPlusProductID              = "prod_splus"
	SupporterPlusMonthlyPlanID          = "plan_splus_monthly"
	SupporterPlusMonthlySubChargeID     = "chg_splus_monthly_sub"
	SupporterPlusMonthlyContribChargeID = "chg_splus_monthly_contrib"
	SupporterPlusAnnualPlanID           = "plan_splus_annual"
	SupporterPlusAnnualSubChargeID      = "chg_splus_annual_sub"
	SupporterPlusAnnualContribChargeID  = "chg_splus_annual_contrib"
)

// NewCatalog builds the raw catalog fixture: both recognized products with
// monthly and annual plans, plus one unrecognized product that the index
// must skip.
func NewCatalog() *catalog.Catalog {
	gbp := func(amount int64) []catalog.Price {
		return []catalog.Price{{Currency: "GBP", Price: decimal.NewFromInt(amount)}}
	}

	return &catalog.Catalog{
		Products: []catalog.Product{
			{
				ID:   ContributionProductID,
				Name: "Contributor",
				RatePlans: []catalog.RatePlan{
					{
						ID:   ContributionMonthlyPlanID,
						Name: "Monthly",
						Charges: []catalog.Charge{
							{ID: ContributionMonthlyChargeID, Name: "Contribution", Pricing: gbp(0)},
						},
					},
					{
						ID:   ContributionAnnualPlanID,
						Name: "Annual",
						Charges: []catalog.Charge{
							{ID: ContributionAnnualChargeID, Name: "Contribution", Pricing: gbp(0)},
						},
					},
				},
			},
			{
				ID:   SupporterPlusProductID,
				Name: "Supporter Plus",
				RatePlans: []catalog.RatePlan{
					{
						ID:   SupporterPlusMonthlyPlanID,
						Name: "Monthly",
						Charges: []catalog.Charge{
							{ID: SupporterPlusMonthlySubChargeID, Name: "Subscription", Pricing: gbp(12)},
							{ID: SupporterPlusMonthlyContribChargeID, Name: "Contribution", Pricing: gbp(0)},
						},
					},
					{
						ID:   SupporterPlusAnnualPlanID,
						Name: "Annual",
						Charges: []catalog.Charge{
							{ID: SupporterPlusAnnualSubChargeID, Name: "Subscription", Pricing: gbp(120)},
							{ID: SupporterPlusAnnualContribChargeID, Name: "Contribution", Pricing: gbp(0)},
						},
					},
				},
			},
			{
				ID:   "prod_paper",
				Name: "Newspaper Delivery",
				RatePlans: []catalog.RatePlan{
					{
						ID:   "plan_paper_everyday",
						Name: "Everyday",
						Charges: []catalog.Charge{
							{ID: "chg_paper_everyday", Name: "Everyday", Pricing: gbp(70)},
						},
					},
				},
			},
		},
	}
}

// NewIndex builds the index over the catalog fixture. The fixture is known
// good, so a build failure is a broken fixture, not a test case.
func NewIndex() *catalog.Index {
	idx, err := catalog.BuildIndex(NewCatalog())
	if err != nil {
		panic(err)
	}
	return idx
}

// StaticCatalogService serves a fixed index without touching storage.
type StaticCatalogService struct {
	Index *catalog.Index
	Err   error
}

func (s *StaticCatalogService) GetIndex(ctx context.Context) (*catalog.Index, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Index, nil
}

// StubObjectStore serves fixed bytes in place of the catalog bucket.
type StubObjectStore struct {
	Data  []byte
	Err   error
	Calls int
}

func (s *StubObjectStore) FetchCatalog(ctx context.Context) ([]byte, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Data, nil
}
