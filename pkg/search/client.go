package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Index names
const (
	StoresIndex   = "stores"
	ProductsIndex = "products"
)

// maxErrorBody bounds how much of an error response is kept
const maxErrorBody = 1024

// Recorder receives one event per search operation
type Recorder interface {
	RecordSearch(operation string, duration time.Duration, err error)
}

// Client is an Elasticsearch client for the stores indexes
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	recorder Recorder
	log      logrus.FieldLogger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRecorder reports per-operation latency and errors
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithLogger sets the logger used for failed requests
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a client for the cluster at rawURL
func New(rawURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid search url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid search url %q: scheme must be http or https", rawURL)
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Ping checks that the cluster answers
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return ErrDisabled
	}
	return c.do(ctx, http.MethodGet, "/", nil, nil)
}

// hits is the part of a search response carrying matched documents
type hits struct {
	Total json.RawMessage `json:"total"`
	Hits  []struct {
		ID string `json:"_id"`
	} `json:"hits"`
}

// count reads hits.total in both the numeric and the {"value": n} form
func (h hits) count() int64 {
	if len(h.Total) == 0 {
		return int64(len(h.Hits))
	}
	var n int64
	if err := json.Unmarshal(h.Total, &n); err == nil {
		return n
	}
	var obj struct {
		Value int64 `json:"value"`
	}
	if err := json.Unmarshal(h.Total, &obj); err == nil {
		return obj.Value
	}
	return int64(len(h.Hits))
}

func (h hits) ids() ([]int64, error) {
	ids := make([]int64, 0, len(h.Hits))
	for _, hit := range h.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unexpected document id %q: %w", hit.ID, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type searchResponse struct {
	Hits         hits                       `json:"hits"`
	Suggest      map[string][]suggestion    `json:"suggest"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

type suggestion struct {
	Options []struct {
		Text string `json:"text"`
	} `json:"options"`
}

// search posts body to index/_search and decodes the answer
func (c *Client) search(ctx context.Context, op, index string, body interface{}) (res *searchResponse, err error) {
	if c == nil {
		return nil, ErrDisabled
	}
	start := time.Now()
	defer func() {
		if c.recorder != nil {
			c.recorder.RecordSearch(op, time.Since(start), err)
		}
	}()

	res = &searchResponse{}
	if err := c.do(ctx, http.MethodPost, "/"+index+"/_search", body, res); err != nil {
		c.log.WithError(err).WithField("operation", op).Warn("search request failed")
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode query: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode search response: %w", err)
	}
	return nil
}
