package types

// OrderActionType tags the variant of an order action sent to the billing
// platform. The order of actions inside a request is significant.
type OrderActionType string

const (
	OrderActionChangePlan         OrderActionType = "ChangePlan"
	OrderActionAddProduct         OrderActionType = "AddProduct"
	OrderActionTermsAndConditions OrderActionType = "TermsAndConditions"
	OrderActionRenewSubscription  OrderActionType = "RenewSubscription"
)

func (t OrderActionType) String() string {
	return string(t)
}
