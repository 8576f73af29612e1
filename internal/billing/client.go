package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/guardianapis/product-switch/internal/config"
	"github.com/guardianapis/product-switch/internal/domain/invoice"
	"github.com/guardianapis/product-switch/internal/domain/order"
	"github.com/guardianapis/product-switch/internal/domain/subscription"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/logger"
	"golang.org/x/time/rate"
)

// Client is the narrow interface the core needs from the billing platform.
// Failures propagate unchanged; retry policy lives inside this collaborator
// (via the retrying HTTP client), never in the core.
type Client interface {
	GetSubscription(ctx context.Context, subscriptionNumber string) (*subscription.Subscription, error)
	GetAccount(ctx context.Context, accountNumber string) (*subscription.Account, error)
	PreviewOrder(ctx context.Context, req *order.Request) (*invoice.Preview, error)
	ExecuteOrder(ctx context.Context, req *order.Request) (string, error)
	PreviewUpcomingInvoice(ctx context.Context, accountNumber string) (*invoice.Preview, error)
}

type httpClient struct {
	baseURL string
	client  *retryablehttp.Client
	tokens  *tokenSource
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewClient builds the REST client for the billing platform.
func NewClient(cfg *config.Configuration, log *logger.Logger) Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Billing.MaxRetries
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	rps := cfg.Billing.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &httpClient{
		baseURL: cfg.Billing.BaseURL,
		client:  rc,
		tokens:  newTokenSource(cfg.Billing.BaseURL, cfg.Billing.ClientID, cfg.Billing.ClientSecret, rc),
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
		log:     log,
	}
}

func (c *httpClient) GetSubscription(ctx context.Context, subscriptionNumber string) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	path := fmt.Sprintf("/v1/subscriptions/%s", subscriptionNumber)
	if err := c.do(ctx, http.MethodGet, path, nil, &sub); err != nil {
		return nil, err
	}
	if sub.SubscriptionNumber == "" {
		return nil, ierr.NewErrorf("subscription %s not found", subscriptionNumber).
			WithHint("Subscription not found").
			Mark(ierr.ErrNotFound)
	}
	return &sub, nil
}

func (c *httpClient) GetAccount(ctx context.Context, accountNumber string) (*subscription.Account, error) {
	var resp accountResponse
	path := fmt.Sprintf("/v1/accounts/%s", accountNumber)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &subscription.Account{
		AccountNumber: resp.BasicInfo.AccountNumber,
		Balance:       resp.Metrics.Balance,
		Currency:      resp.BillingAndPayment.Currency,
		IdentityID:    resp.BasicInfo.IdentityID,
		EmailAddress:  resp.BillToContact.WorkEmail,
		FirstName:     resp.BillToContact.FirstName,
		LastName:      resp.BillToContact.LastName,
	}, nil
}

func (c *httpClient) PreviewOrder(ctx context.Context, req *order.Request) (*invoice.Preview, error) {
	envelope := orderRequestEnvelope{
		Request: req,
		PreviewOptions: &previewOptions{
			PreviewThruType: "SpecificDate",
			PreviewTypes:    []string{"BillingDocs"},
		},
	}

	var resp previewOrderResponse
	if err := c.do(ctx, http.MethodPost, "/v1/orders/preview", envelope, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, platformError("order preview", resp.Reasons)
	}
	if len(resp.PreviewResult.Invoices) == 0 {
		return nil, ierr.NewError("order preview returned no invoices").
			Mark(ierr.ErrSystem)
	}
	return &resp.PreviewResult.Invoices[0], nil
}

func (c *httpClient) ExecuteOrder(ctx context.Context, req *order.Request) (string, error) {
	var resp executeOrderResponse
	if err := c.do(ctx, http.MethodPost, "/v1/orders", req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", platformError("order execution", resp.Reasons)
	}
	return resp.OrderNumber, nil
}

func (c *httpClient) PreviewUpcomingInvoice(ctx context.Context, accountNumber string) (*invoice.Preview, error) {
	req := billingPreviewRequest{
		AccountNumber: accountNumber,
		TargetDate:    time.Now().UTC().AddDate(0, 13, 0).Format("2006-01-02"),
		AssumeRenewal: "Autorenew",
	}

	var resp billingPreviewResponse
	if err := c.do(ctx, http.MethodPost, "/v1/operations/billing-preview", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, platformError("billing preview", resp.Reasons)
	}
	return &invoice.Preview{Items: resp.InvoiceItems}, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrHTTPClient)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return ierr.WithError(err).Mark(ierr.ErrSystem)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrHTTPClient)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	c.log.Debugw("billing platform request", "method", method, "path", path)

	resp, err := c.client.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithMessage(fmt.Sprintf("billing platform request failed: %s %s", method, path)).
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ierr.NewErrorf("billing platform returned status %d for %s %s", resp.StatusCode, method, path).
			Mark(ierr.ErrHTTPClient)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ierr.WithError(err).
			WithMessage(fmt.Sprintf("failed to decode billing platform response: %s %s", method, path)).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}

func platformError(operation string, reasons []reason) error {
	details := make(map[string]any, len(reasons))
	for _, r := range reasons {
		details[fmt.Sprintf("code_%d", r.Code)] = r.Message
	}
	return ierr.NewErrorf("%s rejected by the billing platform", operation).
		WithReportableDetails(details).
		Mark(ierr.ErrSystem)
}
