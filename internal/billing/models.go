package billing

import (
	"github.com/guardianapis/product-switch/internal/domain/invoice"
	"github.com/guardianapis/product-switch/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Wire shapes of the billing platform's REST API. The subscription
// response decodes straight into the domain model; the shapes below cover
// the endpoints whose responses need reshaping first.

type accountResponse struct {
	BasicInfo struct {
		AccountNumber string `json:"accountNumber"`
		IdentityID    string `json:"identityId"`
	} `json:"basicInfo"`
	BillingAndPayment struct {
		Currency string `json:"currency"`
	} `json:"billingAndPayment"`
	Metrics struct {
		Balance decimal.Decimal `json:"balance"`
	} `json:"metrics"`
	BillToContact struct {
		WorkEmail string `json:"workEmail"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"billToContact"`
	Success bool `json:"success"`
}

type orderRequestEnvelope struct {
	*order.Request
	PreviewOptions *previewOptions `json:"previewOptions,omitempty"`
}

type previewOptions struct {
	PreviewThruType         string   `json:"previewThruType"`
	PreviewTypes            []string `json:"previewTypes"`
	SpecificPreviewThruDate string   `json:"specificPreviewThruDate,omitempty"`
}

type previewOrderResponse struct {
	Success       bool     `json:"success"`
	Reasons       []reason `json:"reasons,omitempty"`
	PreviewResult struct {
		Invoices []invoice.Preview `json:"invoices"`
	} `json:"previewResult"`
}

type executeOrderResponse struct {
	Success             bool     `json:"success"`
	Reasons             []reason `json:"reasons,omitempty"`
	OrderNumber         string   `json:"orderNumber"`
	SubscriptionNumbers []string `json:"subscriptionNumbers,omitempty"`
}

type billingPreviewRequest struct {
	AccountNumber string `json:"accountNumber"`
	TargetDate    string `json:"targetDate"`
	AssumeRenewal string `json:"assumeRenewal"`
}

type billingPreviewResponse struct {
	Success      bool           `json:"success"`
	Reasons      []reason       `json:"reasons,omitempty"`
	InvoiceItems []invoice.Item `json:"invoiceItems"`
}

type reason struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
