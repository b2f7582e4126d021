package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stwalsh4118/procurement/internal/config"
)

const (
	// AppTokenHeader carries the Socrata application token.
	AppTokenHeader = "X-App-Token"

	// maxErrorBody bounds how much of a failed response is kept.
	maxErrorBody = 512
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("socrata: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("socrata: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Source is the read side of the open-data API used by the services.
type Source interface {
	// FetchRows returns up to limit rows starting at offset, ordered by
	// purchase order number.
	FetchRows(ctx context.Context, limit, offset int) ([]Row, error)

	// FetchPurchaseOrderRows returns every row of one purchase order. An
	// unknown number yields an empty slice.
	FetchPurchaseOrderRows(ctx context.Context, number string) ([]Row, error)
}

// Client queries one Socrata dataset.
type Client struct {
	http      *http.Client
	baseURI   string
	datasetID string
	appToken  string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client for the configured dataset.
func NewClient(cfg config.SocrataConfig, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		baseURI:   cfg.BaseURI,
		datasetID: cfg.DatasetID,
		appToken:  cfg.AppToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRows implements Source.
func (c *Client) FetchRows(ctx context.Context, limit, offset int) ([]Row, error) {
	q := url.Values{}
	q.Set("$limit", strconv.Itoa(limit))
	q.Set("$offset", strconv.Itoa(offset))
	q.Set("$order", "purchase_order")
	return c.get(ctx, q)
}

// FetchPurchaseOrderRows implements Source.
func (c *Client) FetchPurchaseOrderRows(ctx context.Context, number string) ([]Row, error) {
	q := url.Values{}
	q.Set("purchase_order", number)
	return c.get(ctx, q)
}

func (c *Client) resourceURL(q url.Values) string {
	return fmt.Sprintf("%s/resource/%s.json?%s", c.baseURI, url.PathEscape(c.datasetID), q.Encode())
}

func (c *Client) get(ctx context.Context, q url.Values) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resourceURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build socrata request: %w", err)
	}
	req.Header.Set(AppTokenHeader, c.appToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("socrata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode socrata rows: %w", err)
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}
