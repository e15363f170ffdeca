package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"dealflow/internal/models"
)

// RequestFunc decorates an outgoing request with credentials. Auth is
// injected here rather than read from any ambient session state, so the
// pipeline core stays independent of the identity provider.
type RequestFunc func(*http.Request) error

// BearerToken returns a RequestFunc that sets a static bearer token.
func BearerToken(token string) RequestFunc {
	return func(req *http.Request) error {
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
}

// HTTPClient talks to the deal API over REST.
type HTTPClient struct {
	baseURL   string
	httpc     *http.Client
	authorize RequestFunc
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithAuth sets the credential-bearing request decorator.
func WithAuth(fn RequestFunc) Option {
	return func(c *HTTPClient) { c.authorize = fn }
}

// WithHTTPClient overrides the underlying http.Client (timeouts,
// transport, test doubles).
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *HTTPClient) { c.httpc = httpc }
}

// NewHTTPClient creates a client for the API at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListDeals fetches the full deal set: GET /deals.
func (c *HTTPClient) ListDeals(ctx context.Context) ([]models.Deal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/deals", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	var deals []models.Deal
	if err := c.do(req, &deals); err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return deals, nil
}

// UpdateStage issues PATCH /deals/{id}/stage with an idempotency key,
// so a retried request after a dropped response cannot double-apply.
func (c *HTTPClient) UpdateStage(ctx context.Context, dealID, stage string) (*models.Deal, error) {
	body, err := json.Marshal(map[string]string{"stage": stage})
	if err != nil {
		return nil, fmt.Errorf("encode stage payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/deals/%s/stage", c.baseURL, url.PathEscape(dealID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build stage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	var deal models.Deal
	if err := c.do(req, &deal); err != nil {
		return nil, fmt.Errorf("update stage of deal %s: %w", dealID, err)
	}
	return &deal, nil
}

// do sends the request and decodes a JSON response into out. Non-2xx
// responses are decoded into an *APIError carrying the backend's
// machine-readable reason.
func (c *HTTPClient) do(req *http.Request, out any) error {
	if c.authorize != nil {
		if err := c.authorize(req); err != nil {
			return fmt.Errorf("authorize request: %w", err)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorEnvelope matches the API's error shape:
// {"error": {"code": "...", "message": "..."}}
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	if apiErr.Code == "" && resp.StatusCode == http.StatusNotFound {
		apiErr.Code = "not_found"
	}
	return apiErr
}
