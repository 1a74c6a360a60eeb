package telegram

import (
	"errors"
	"net"
	"net/http"
	"time"
)

const (
	dialTimeout     = 5 * time.Second
	tlsTimeout      = 5 * time.Second
	idleConnTimeout = 30 * time.Second
	keepAlive       = 30 * time.Second
	responseSlack   = 5 * time.Second

	defaultClientTimeout = 30 * time.Second
	dialRetries          = 3
	dialBackoff          = 500 * time.Millisecond
)

// BuildHTTPClient returns an HTTP client for the Bot API. getUpdates holds
// the response for up to pollTimeout, so header and client timeouts are
// stretched past it.
func BuildHTTPClient(pollTimeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: keepAlive}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsTimeout,
		ResponseHeaderTimeout: pollTimeout + responseSlack,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   max(defaultClientTimeout, pollTimeout+2*responseSlack),
		Transport: &retryTransport{base: transport, maxRetries: dialRetries, backoff: dialBackoff},
	}
}

// retryTransport retries requests that never reached the server. Anything
// later may already have been acted on (a sent message), so it is left to
// the sender's retry policy.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	ctx := req.Context()
	for attempt := 0; ; attempt++ {
		r := req
		if attempt > 0 {
			r = req.Clone(ctx)
			if req.Body != nil && req.Body != http.NoBody {
				if req.GetBody == nil {
					return nil, errors.New("telegram: cannot replay request body")
				}
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				r.Body = body
			}
		}

		resp, err := base.RoundTrip(r)
		if err == nil || attempt >= t.maxRetries || !notSent(err) {
			return resp, err
		}

		timer := time.NewTimer(t.backoff * time.Duration(attempt+1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// notSent reports whether err happened before the request left the client.
func notSent(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
