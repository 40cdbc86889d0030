package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/techmine/techmine/internal/common/cnst"
	"github.com/techmine/techmine/internal/common/dto"
	"github.com/techmine/techmine/pkg/version"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client talks to the apiserver over HTTP
type Client struct {
	baseURL    string
	token      string
	lang       string
	httpClient *http.Client
}

type Option func(*Client)

// WithToken sets the bearer token sent on every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLanguage asks the server for localized error messages
func WithLanguage(lang string) Option {
	return func(c *Client) { c.lang = lang }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends one request. A non-nil body is encoded as JSON; out, when non-nil,
// receives the decoded response. The response header is returned so callers
// can read Location.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) (http.Header, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.lang != "" {
		req.Header.Set(cnst.XLang, c.lang)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp.Header, decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.Header, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, nil
}

// Raw returns the undecoded response body of a GET, for output filters
func (c *Client) Raw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var raw json.RawMessage
	if _, err := c.Do(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) ProfileMe(ctx context.Context) (*dto.Profile, error) {
	var p dto.Profile
	if _, err := c.Do(ctx, http.MethodGet, "/api/profiles/me", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AuthMe echoes the verified identity, with the role the server resolved
func (c *Client) AuthMe(ctx context.Context) (*dto.Identity, error) {
	var id dto.Identity
	if _, err := c.Do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *Client) Homepage(ctx context.Context) (*dto.HomePage, error) {
	var hp dto.HomePage
	if _, err := c.Do(ctx, http.MethodGet, "/api/dashboard/homepage", nil, nil, &hp); err != nil {
		return nil, err
	}
	return &hp, nil
}

func (c *Client) Recap(ctx context.Context) (*dto.Recap, error) {
	var r dto.Recap
	if _, err := c.Do(ctx, http.MethodGet, "/api/dashboard/recap", nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) Health(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodGet, "/healthz", nil, nil, nil)
	return err
}

func (c *Client) Reports() *Collection[dto.ReportInput, dto.Report] {
	return NewCollection[dto.ReportInput, dto.Report](c, cnst.CollectionReports)
}

func (c *Client) Incidents() *Collection[dto.IncidentInput, dto.Incident] {
	return NewCollection[dto.IncidentInput, dto.Incident](c, cnst.CollectionIncidents)
}

func (c *Client) Worksites() *Collection[dto.WorksiteInput, dto.Worksite] {
	return NewCollection[dto.WorksiteInput, dto.Worksite](c, cnst.CollectionWorksites)
}

func (c *Client) Clients() *Collection[dto.ClientInput, dto.Client] {
	return NewCollection[dto.ClientInput, dto.Client](c, cnst.CollectionClients)
}

func (c *Client) Attachments() *Collection[dto.AttachmentInput, dto.Attachment] {
	return NewCollection[dto.AttachmentInput, dto.Attachment](c, cnst.CollectionAttachments)
}
