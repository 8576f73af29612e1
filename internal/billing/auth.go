package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	ierr "github.com/guardianapis/product-switch/internal/errors"
)

// tokenSource caches the platform's OAuth client-credentials token and
// refreshes it shortly before expiry. Safe for concurrent use.
type tokenSource struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *retryablehttp.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

// refresh this long before the reported expiry to avoid using a token that
// dies mid-request.
const tokenExpiryMargin = 60 * time.Second

func newTokenSource(baseURL, clientID, clientSecret string, client *retryablehttp.Client) *tokenSource {
	return &tokenSource{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       client,
	}
}

func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Now().Before(t.expires) {
		return t.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {t.clientID},
		"client_secret": {t.clientSecret},
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		t.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", ierr.WithError(err).Mark(ierr.ErrHTTPClient)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", ierr.WithError(err).
			WithMessage("failed to fetch billing platform auth token").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ierr.NewErrorf("auth token request returned status %d", resp.StatusCode).
			Mark(ierr.ErrHTTPClient)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", ierr.WithError(err).
			WithMessage("failed to decode auth token response").
			Mark(ierr.ErrHTTPClient)
	}

	t.token = token.AccessToken
	t.expires = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpiryMargin)
	return t.token, nil
}
