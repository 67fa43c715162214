// Package judgeme implements the HTTP client for the upstream review and
// catalog provider.
package judgeme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// Sentinel errors for provider client failures.
var (
	ErrUpstreamUnreachable = errors.New("review provider unreachable")
	ErrUpstreamStatus      = errors.New("review provider error")
	ErrUpstreamTimeout     = errors.New("review provider timeout")
)

// Credentials identify one tenant against the provider.
type Credentials struct {
	ShopDomain string
	APIToken   string
}

// Client is the interface for the review/catalog provider.
type Client interface {
	// FetchPage returns one page of raw reviews. An empty slice signals the
	// end of pagination.
	FetchPage(ctx context.Context, creds Credentials, page int) ([]models.RawReview, error)
	// ListProductHandles returns the tenant's catalog handles.
	ListProductHandles(ctx context.Context, creds Credentials) ([]string, error)
}

// HTTPClient implements Client against the judge.me v1 API.
type HTTPClient struct {
	baseURL string
	perPage int
	client  *http.Client
}

// NewHTTPClient creates a new provider HTTP client.
func NewHTTPClient(baseURL string, perPage int, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		perPage: perPage,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) FetchPage(ctx context.Context, creds Credentials, page int) ([]models.RawReview, error) {
	params := url.Values{
		"shop_domain": {creds.ShopDomain},
		"api_token":   {creds.APIToken},
		"per_page":    {strconv.Itoa(c.perPage)},
		"page":        {strconv.Itoa(page)},
	}

	u := fmt.Sprintf("%s/api/v1/reviews?%s", c.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamStatus, resp.StatusCode)
	}

	var reviewsResp reviewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&reviewsResp); err != nil {
		return nil, fmt.Errorf("decoding reviews response: %w", err)
	}

	if reviewsResp.Reviews == nil {
		return []models.RawReview{}, nil
	}
	return reviewsResp.Reviews, nil
}

func (c *HTTPClient) ListProductHandles(ctx context.Context, creds Credentials) ([]string, error) {
	params := url.Values{
		"shop_domain": {creds.ShopDomain},
		"api_token":   {creds.APIToken},
	}

	u := fmt.Sprintf("%s/api/v1/products?%s", c.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamStatus, resp.StatusCode)
	}

	var productsResp productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&productsResp); err != nil {
		return nil, fmt.Errorf("decoding products response: %w", err)
	}

	handles := make([]string, 0, len(productsResp.Products))
	for _, p := range productsResp.Products {
		if p.Handle != "" {
			handles = append(handles, p.Handle)
		}
	}
	return handles, nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}

	return fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
}

// --- provider response types ---

type reviewsResponse struct {
	Reviews []models.RawReview `json:"reviews"`
}

type productsResponse struct {
	Products []struct {
		Handle string `json:"handle"`
		Title  string `json:"title"`
	} `json:"products"`
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
