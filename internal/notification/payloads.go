package notification

// SwitchConfirmationEmail triggers the confirmation email after a
// successful switch.
type SwitchConfirmationEmail struct {
	EmailAddress       string `json:"emailAddress"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	SubscriptionNumber string `json:"subscriptionNumber"`
	TargetProduct      string `json:"targetProduct"`
	Amount             string `json:"amount"`
	Currency           string `json:"currency"`
	BillingPeriod      string `json:"billingPeriod"`
	FirstPaymentDate   string `json:"firstPaymentDate,omitempty"`
}

// SupporterDataUpdate keeps the supporter-data store in sync with the
// product the subscription now carries.
type SupporterDataUpdate struct {
	IdentityID         string `json:"identityId"`
	SubscriptionNumber string `json:"subscriptionNumber"`
	Product            string `json:"product"`
	RatePlan           string `json:"ratePlan"`
	CsrUserID          string `json:"csrUserId,omitempty"`
	CaseID             string `json:"caseId,omitempty"`
}
