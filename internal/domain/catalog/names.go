package catalog

import "github.com/guardianapis/product-switch/internal/types"

// Catalog node names map deterministically to semantic keys. Products and
// rate plans with unmapped names are legitimately present in the catalog
// and are simply skipped; charge names are a closed set (see BuildIndex).
var productKeyByName = map[string]types.ProductKey{
	"Contributor":    types.ProductContribution,
	"Supporter Plus": types.ProductSupporterPlus,
}

var ratePlanKeyByName = map[string]types.RatePlanKey{
	"Monthly": types.RatePlanMonthly,
	"Annual":  types.RatePlanAnnual,
}

var chargeKeyByName = map[string]types.ChargeKey{
	"Contribution": types.ChargeContribution,
	"Subscription": types.ChargeSubscription,
}
