package testutil

import (
	"context"

	"github.com/guardianapis/product-switch/internal/billing"
	"github.com/guardianapis/product-switch/internal/domain/invoice"
	"github.com/guardianapis/product-switch/internal/domain/order"
	"github.com/guardianapis/product-switch/internal/domain/subscription"
)

var _ billing.Client = (*StubBillingClient)(nil)

// StubBillingClient is a configurable in-memory stand-in for the billing
// platform. It records every order it is asked to preview or execute.
type StubBillingClient struct {
	Subscription    *subscription.Subscription
	SubscriptionErr error

	Account    *subscription.Account
	AccountErr error

	OrderPreview    *invoice.Preview
	OrderPreviewErr error

	OrderNumber string
	ExecuteErr  error

	UpcomingPreview *invoice.Preview
	UpcomingErr     error

	PreviewedOrders []*order.Request
	ExecutedOrders  []*order.Request
	UpcomingCalls   int
}

func (c *StubBillingClient) GetSubscription(ctx context.Context, subscriptionNumber string) (*subscription.Subscription, error) {
	if c.SubscriptionErr != nil {
		return nil, c.SubscriptionErr
	}
	return c.Subscription, nil
}

func (c *StubBillingClient) GetAccount(ctx context.Context, accountNumber string) (*subscription.Account, error) {
	if c.AccountErr != nil {
		return nil, c.AccountErr
	}
	return c.Account, nil
}

func (c *StubBillingClient) PreviewOrder(ctx context.Context, req *order.Request) (*invoice.Preview, error) {
	c.PreviewedOrders = append(c.PreviewedOrders, req)
	if c.OrderPreviewErr != nil {
		return nil, c.OrderPreviewErr
	}
	return c.OrderPreview, nil
}

func (c *StubBillingClient) ExecuteOrder(ctx context.Context, req *order.Request) (string, error) {
	c.ExecutedOrders = append(c.ExecutedOrders, req)
	if c.ExecuteErr != nil {
		return "", c.ExecuteErr
	}
	return c.OrderNumber, nil
}

func (c *StubBillingClient) PreviewUpcomingInvoice(ctx context.Context, accountNumber string) (*invoice.Preview, error) {
	c.UpcomingCalls++
	if c.UpcomingErr != nil {
		return nil, c.UpcomingErr
	}
	return c.UpcomingPreview, nil
}
