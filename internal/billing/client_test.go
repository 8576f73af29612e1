package billing

import (
	"context"
	"encoding/json"
	"github.com/cockroachdb/errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guardianapis/product-switch/internal/config"
	"github.com/guardianapis/product-switch/internal/domain/order"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPlatform struct {
	mux        *http.ServeMux
	tokenCalls int
	authSeen   []string
}

func newTestPlatform() *testPlatform {
	p := &testPlatform{mux: http.NewServeMux()}
	p.mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		p.tokenCalls++
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"expires_in":   3600,
		})
	})
	return p
}

func (p *testPlatform) handle(path string, status int, body any) {
	p.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		p.authSeen = append(p.authSeen, r.Header.Get("Authorization"))
		w.WriteHeader(status)
		if body != nil {
			json.NewEncoder(w).Encode(body)
		}
	})
}

func newTestClient(t *testing.T, p *testPlatform) Client {
	t.Helper()
	server := httptest.NewServer(p.mux)
	t.Cleanup(server.Close)

	cfg := &config.Configuration{
		Billing: config.BillingConfig{
			BaseURL:           server.URL,
			ClientID:          "client",
			ClientSecret:      "secret",
			RequestsPerSecond: 100,
		},
	}
	return NewClient(cfg, logger.NewNopLogger())
}

func TestGetSubscription(t *testing.T) {
	platform := newTestPlatform()
	platform.handle("/v1/subscriptions/A-S00001", http.StatusOK, map[string]any{
		"subscriptionNumber": "A-S00001",
		"accountNumber":      "A-ACC001",
		"status":             "Active",
		"termStartDate":      "2024-01-15",
	})
	client := newTestClient(t, platform)

	sub, err := client.GetSubscription(context.Background(), "A-S00001")
	require.NoError(t, err)

	assert.Equal(t, "A-S00001", sub.SubscriptionNumber)
	assert.Equal(t, "A-ACC001", sub.AccountNumber)
	assert.Equal(t, "2024-01-15", sub.TermStartDate.String())
	require.NotEmpty(t, platform.authSeen)
	assert.Equal(t, "Bearer tok-123", platform.authSeen[0])
}

func TestTokenIsCachedAcrossRequests(t *testing.T) {
	platform := newTestPlatform()
	platform.handle("/v1/subscriptions/A-S00001", http.StatusOK, map[string]any{
		"subscriptionNumber": "A-S00001",
	})
	client := newTestClient(t, platform)

	_, err := client.GetSubscription(context.Background(), "A-S00001")
	require.NoError(t, err)
	_, err = client.GetSubscription(context.Background(), "A-S00001")
	require.NoError(t, err)

	assert.Equal(t, 1, platform.tokenCalls)
}

func TestGetSubscriptionNotFound(t *testing.T) {
	platform := newTestPlatform()
	platform.handle("/v1/subscriptions/A-MISSING", http.StatusOK, map[string]any{})
	client := newTestClient(t, platform)

	_, err := client.GetSubscription(context.Background(), "A-MISSING")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrNotFound))
}

func TestErrorStatusIsMarkedAsClientFailure(t *testing.T) {
	platform := newTestPlatform()
	platform.handle("/v1/subscriptions/A-S00001", http.StatusBadGateway, nil)
	client := newTestClient(t, platform)

	_, err := client.GetSubscription(context.Background(), "A-S00001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrHTTPClient))
}

func TestExecuteOrderPlatformRejection(t *testing.T) {
	platform := newTestPlatform()
	platform.handle("/v1/orders", http.StatusOK, map[string]any{
		"success": false,
		"reasons": []map[string]any{{"code": 53100320, "message": "subscription is locked"}},
	})
	client := newTestClient(t, platform)

	_, err := client.ExecuteOrder(context.Background(), &order.Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrSystem))
	assert.Contains(t, err.Error(), "rejected by the billing platform")
}

func TestPreviewOrderRequiresAnInvoice(t *testing.T) {
	platform := newTestPlatform()
	platform.handle("/v1/orders/preview", http.StatusOK, map[string]any{
		"success":       true,
		"previewResult": map[string]any{"invoices": []any{}},
	})
	client := newTestClient(t, platform)

	_, err := client.PreviewOrder(context.Background(), &order.Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrSystem))
}
