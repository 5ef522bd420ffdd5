// Package activecampaign is a thin client for the ActiveCampaign v3 REST API.
// Transport failures are returned as data so that callers can branch on them
// instead of handling Go errors.
package activecampaign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bturcanu/activecampaign-mcp/pkg/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	requestTimeout           = 30 * time.Second
	maxExternalResponseBytes = 4 << 20
)

var (
	tracer = otel.Tracer("github.com/bturcanu/activecampaign-mcp/pkg/activecampaign")
	meter  = otel.Meter("github.com/bturcanu/activecampaign-mcp/pkg/activecampaign")

	requestCounter, _ = meter.Int64Counter("activecampaign.requests",
		metric.WithDescription("ActiveCampaign API requests by method and response status"))
)

// CredentialSource supplies the API base URL and token for one request.
type CredentialSource interface {
	APIConfig(ctx context.Context) (baseURL, apiKey string, err error)
}

// RequestError is the structured form of a failed HTTP exchange.
// StatusCode is nil when no response was received.
type RequestError struct {
	Message    string `json:"error"`
	StatusCode *int   `json:"status_code"`
}

// Result is either a JSON payload or a RequestError, never both.
type Result struct {
	Body json.RawMessage
	Err  *RequestError
}

// Failed reports whether the request ended in a transport error.
func (r Result) Failed() bool { return r.Err != nil }

// JSON renders the result the way it is handed to callers: the payload, or
// {"error": ..., "status_code": ...}.
func (r Result) JSON() json.RawMessage {
	if r.Err != nil {
		b, _ := json.Marshal(r.Err)
		return b
	}
	return r.Body
}

// Client executes requests against the host returned by its CredentialSource.
type Client struct {
	creds      CredentialSource
	httpClient *http.Client
}

// NewClient creates a client with the fixed 30 second request timeout.
func NewClient(creds CredentialSource) *Client {
	return &Client{
		creds: creds,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Request performs one call. The returned error is reserved for configuration
// and credential problems; HTTP and network failures come back in Result.Err.
// body is sent only for POST and PUT; []byte and json.RawMessage are sent
// verbatim, anything else is JSON encoded.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any) (Result, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return Result{}, types.ErrConfiguration(fmt.Sprintf("unsupported HTTP method: %s", method))
	}

	baseURL, apiKey, err := c.creds.APIConfig(ctx)
	if err != nil {
		return Result{}, err
	}

	ctx, span := tracer.Start(ctx, "activecampaign.request")
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("activecampaign.endpoint", endpoint),
	)

	url := strings.TrimRight(baseURL, "/") + endpoint

	var reader io.Reader
	if method == http.MethodPost || method == http.MethodPut {
		payload, err := encodeBody(body)
		if err != nil {
			return Result{}, types.ErrMapping("encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return Result{}, types.ErrConfiguration(fmt.Sprintf("invalid request url %q: %v", url, err))
	}
	httpReq.Header.Set("Api-Token", apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		countRequest(ctx, method, 0)
		return failure(err.Error(), nil), nil
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	countRequest(ctx, method, resp.StatusCode)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxExternalResponseBytes))
	if err != nil {
		return failure("read response: "+err.Error(), &resp.StatusCode), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, resp.Status)
		return failure(statusMessage(resp.StatusCode, url), &resp.StatusCode), nil
	}

	respBody = bytes.TrimSpace(respBody)
	if len(respBody) == 0 {
		return Result{Body: json.RawMessage(`{}`)}, nil
	}
	if !json.Valid(respBody) {
		return failure("invalid JSON in response from "+url, &resp.StatusCode), nil
	}
	return Result{Body: respBody}, nil
}

func countRequest(ctx context.Context, method string, status int) {
	if requestCounter == nil {
		return
	}
	requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.Int("http.status_code", status),
	))
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return []byte(`{}`), nil
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	default:
		return json.Marshal(b)
	}
}

func failure(msg string, statusCode *int) Result {
	var code *int
	if statusCode != nil {
		c := *statusCode
		code = &c
	}
	return Result{Err: &RequestError{Message: msg, StatusCode: code}}
}

func statusMessage(code int, url string) string {
	kind := "Server Error"
	if code < 500 {
		kind = "Client Error"
	}
	return fmt.Sprintf("%d %s: %s for url: %s", code, kind, http.StatusText(code), url)
}
