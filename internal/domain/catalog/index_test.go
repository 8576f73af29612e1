package catalog_test

import (
	"github.com/cockroachdb/errors"
	"testing"

	"github.com/guardianapis/product-switch/internal/domain/catalog"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/testutil"
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexRecognizedTree(t *testing.T) {
	idx, err := catalog.BuildIndex(testutil.NewCatalog())
	require.NoError(t, err)

	plan, ok := idx.Plan(types.ProductSupporterPlus, types.RatePlanMonthly)
	require.True(t, ok)
	assert.Equal(t, testutil.SupporterPlusMonthlyPlanID, plan.ID)
	assert.Equal(t, types.ProductSupporterPlus, plan.ProductKey)

	base, err := plan.BasePrice("GBP")
	require.NoError(t, err)
	assert.True(t, base.Equal(decimal.NewFromInt(12)))

	contribution, ok := plan.Charge(types.ChargeContribution)
	require.True(t, ok)
	assert.Equal(t, testutil.SupporterPlusMonthlyContribChargeID, contribution.ID)

	product, ok := idx.Product(testutil.ContributionProductID)
	require.True(t, ok)
	assert.Equal(t, types.ProductContribution, product.Key)
	assert.Contains(t, product.RatePlans, testutil.ContributionAnnualPlanID)
}

func TestBuildIndexIsDeterministic(t *testing.T) {
	first, err := catalog.BuildIndex(testutil.NewCatalog())
	require.NoError(t, err)
	second, err := catalog.BuildIndex(testutil.NewCatalog())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildIndexSkipsUnrecognizedProductsAndPlans(t *testing.T) {
	idx, err := catalog.BuildIndex(testutil.NewCatalog())
	require.NoError(t, err)

	_, ok := idx.Product("prod_paper")
	assert.False(t, ok, "unrecognized product must be skipped with its subtree")

	c := &catalog.Catalog{
		Products: []catalog.Product{
			{
				ID:   "prod_contrib",
				Name: "Contributor",
				RatePlans: []catalog.RatePlan{
					{
						ID:   "plan_contrib_quarterly",
						Name: "Quarterly",
						Charges: []catalog.Charge{
							// The charge name would be fatal under a recognized
							// plan; the unrecognized plan shields it.
							{ID: "chg_q", Name: "Mystery"},
						},
					},
				},
			},
		},
	}
	idx, err = catalog.BuildIndex(c)
	require.NoError(t, err)

	product, ok := idx.Product("prod_contrib")
	require.True(t, ok)
	assert.Empty(t, product.RatePlans)
}

func TestBuildIndexRejectsUnrecognizedChargeName(t *testing.T) {
	c := &catalog.Catalog{
		Products: []catalog.Product{
			{
				ID:   "prod_contrib",
				Name: "Contributor",
				RatePlans: []catalog.RatePlan{
					{
						ID:   "plan_contrib_monthly",
						Name: "Monthly",
						Charges: []catalog.Charge{
							{ID: "chg_1", Name: "Mystery"},
						},
					},
				},
			},
		},
	}

	_, err := catalog.BuildIndex(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrSystem))
}

func TestBuildIndexRejectsAmbiguousChargeKeys(t *testing.T) {
	c := &catalog.Catalog{
		Products: []catalog.Product{
			{
				ID:   "prod_contrib",
				Name: "Contributor",
				RatePlans: []catalog.RatePlan{
					{
						ID:   "plan_contrib_monthly",
						Name: "Monthly",
						Charges: []catalog.Charge{
							{ID: "chg_1", Name: "Contribution"},
							{ID: "chg_2", Name: "Contribution"},
						},
					},
				},
			},
		},
	}

	_, err := catalog.BuildIndex(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrSystem))
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestChargePriceUnknownCurrency(t *testing.T) {
	idx, err := catalog.BuildIndex(testutil.NewCatalog())
	require.NoError(t, err)

	plan, ok := idx.Plan(types.ProductSupporterPlus, types.RatePlanAnnual)
	require.True(t, ok)

	_, err = plan.BasePrice("AUD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrSystem))
}

func TestParseRejectsMalformedDocument(t *testing.T) {
	_, err := catalog.Parse([]byte("{not json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrSystem))
}
