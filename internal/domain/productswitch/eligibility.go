package productswitch

import (
	"github.com/guardianapis/product-switch/internal/domain/invoice"
	"github.com/guardianapis/product-switch/internal/domain/subscription"
)

// EligibleForSave is the "generally eligible" part of the save-discount
// check, derived from the account's upcoming billing preview: an account
// already carrying a discount (a negative upcoming line item) or an
// outstanding balance cannot receive the save discount.
//
// Callers wrap this in a Deferred so the upcoming preview is fetched at
// most once per request, and only when the save mode actually runs.
func EligibleForSave(account *subscription.Account, upcoming *invoice.Preview) bool {
	if account.Balance.IsPositive() {
		return false
	}
	if upcoming.HasNegativeItem() {
		return false
	}
	return true
}
