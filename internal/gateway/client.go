// Package gateway implements the HTTP client for the bank settlement endpoint.
package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/domain"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/httpclient"
)

// maxReasonBytes caps how much of a response body is kept as an outcome reason.
const maxReasonBytes = 4 * 1024

var settlementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gateway_settlements_total",
		Help: "Total settlement attempts by outcome.",
	},
	[]string{"outcome"},
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client talks to the bank's settlement endpoint. It performs exactly one
// attempt per call and classifies every response into a GatewayOutcome;
// retry decisions belong to the caller.
type Client struct {
	doer    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a settlement client for the given endpoint URL.
func NewClient(doer HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		doer:    doer,
		baseURL: baseURL,
		logger:  logger,
	}
}

// LogRedirects returns a redirect policy that records each redirect hop
// before following it. The bank endpoint is not supposed to redirect, so a
// hop is worth an operator-visible log line even when it resolves.
func LogRedirects(logger *slog.Logger) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		logger.Warn("settlement request redirected",
			slog.String("from", via[len(via)-1].URL.String()),
			slog.String("to", req.URL.String()),
			slog.Int("hops", len(via)),
		)
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return nil
	}
}

// Settle submits one settlement attempt for the given amount against the
// given account. Every result, including transport failures, comes back as
// an outcome rather than an error; the classification is:
//
//	200                  approved
//	400                  declined, reason is the response body
//	404                  protocol error, endpoint not found
//	500                  transient failure
//	3xx                  followed, final response classified as above
//	network error        transient failure
//	unfollowable redirect protocol error
//	anything else        protocol error with status code and body
func (c *Client) Settle(ctx context.Context, req domain.SettlementRequest) domain.GatewayOutcome {
	outcome := c.settle(ctx, req)
	settlementsTotal.WithLabelValues(string(outcome.Kind)).Inc()
	return outcome
}

func (c *Client) settle(ctx context.Context, req domain.SettlementRequest) domain.GatewayOutcome {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return domain.ProtocolError(0, "build settlement request: "+err.Error())
	}

	resp, err := c.doer.Do(ctx, httpReq)
	if err != nil {
		return c.classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body := readReason(resp.Body)

	c.logger.InfoContext(ctx, "settlement response received",
		slog.Int("status", resp.StatusCode),
		slog.Int("account_token", req.AccountToken),
		slog.String("amount", req.Amount.String()),
	)

	switch resp.StatusCode {
	case http.StatusOK:
		return domain.Approved()
	case http.StatusBadRequest:
		return domain.Declined(body)
	case http.StatusNotFound:
		return domain.ProtocolError(http.StatusNotFound, "endpoint not found")
	case http.StatusInternalServerError:
		if body == "" {
			body = "internal server error"
		}
		return domain.TransientFailure(body)
	default:
		return domain.ProtocolError(resp.StatusCode, body)
	}
}

func (c *Client) buildRequest(ctx context.Context, req domain.SettlementRequest) (*http.Request, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, nil)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("accountToken", strconv.Itoa(req.AccountToken))
	q.Set("amount", req.Amount.String())
	httpReq.URL.RawQuery = q.Encode()

	return httpReq, nil
}

// classifyTransportError maps errors from the HTTP round trip. Timeouts and
// connection failures may succeed on a retry; a redirect the client could not
// follow means the endpoint itself is misbehaving.
func (c *Client) classifyTransportError(ctx context.Context, err error) domain.GatewayOutcome {
	c.logger.WarnContext(ctx, "settlement request failed",
		slog.String("error", err.Error()),
	)

	if errors.Is(err, httpclient.ErrCircuitOpen) {
		return domain.TransientFailure("payment gateway circuit open")
	}

	if isRedirectFailure(err) {
		return domain.ProtocolError(0, "unfollowable redirect: "+err.Error())
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.TransientFailure("request timed out: " + err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.TransientFailure("request timed out: " + err.Error())
	}

	return domain.TransientFailure(err.Error())
}

// isRedirectFailure reports whether the round trip failed while trying to
// follow a redirect, such as a missing or malformed Location header or the
// hop limit from LogRedirects.
func isRedirectFailure(err error) bool {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return false
	}
	msg := urlErr.Err.Error()
	return strings.Contains(msg, "redirect") || strings.Contains(msg, "Location")
}

func readReason(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxReasonBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
