package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Netcracker/qubership-site-readiness-service/view"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var ErrFetchTimeout = errors.New("request timeout - website took too long to respond")

// PageClient retrieves a page, following redirects hop by hop.
type PageClient interface {
	Resolve(ctx context.Context, targetUrl string) (*view.Resolution, error)
}

type PageClientOptions struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int
	MaxBodyBytes int64
}

func NewPageClient(opts PageClientOptions) PageClient {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 5
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 5 * 1024 * 1024
	}

	tr := http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableCompression:    true,
	}
	cl := http.Client{Transport: &tr}
	client := resty.NewWithClient(&cl)
	// 3xx responses are handed back to Resolve instead of being followed by net/http
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	}))

	return &pageClientImpl{
		client:       client,
		timeout:      opts.Timeout,
		maxRedirects: opts.MaxRedirects,
		maxBodyBytes: opts.MaxBodyBytes,
		headers: map[string]string{
			"User-Agent":                opts.UserAgent,
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.5",
			"Accept-Encoding":           "gzip, deflate, br",
			"DNT":                       "1",
			"Upgrade-Insecure-Requests": "1",
		},
	}
}

type pageClientImpl struct {
	client       *resty.Client
	timeout      time.Duration
	maxRedirects int
	maxBodyBytes int64
	headers      map[string]string
}

// Resolve issues GET requests starting at targetUrl and follows Location headers itself.
// At most maxRedirects redirect responses are received; the last one is returned as the final
// response when the chain is longer. The whole resolution shares one timeout.
func (p pageClientImpl) Resolve(ctx context.Context, targetUrl string) (*view.Resolution, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	current := targetUrl
	hops := make([]view.Hop, 0)

	for {
		resp, err := p.client.R().
			SetContext(ctx).
			SetHeaders(p.headers).
			SetDoNotParseResponse(true).
			Get(current)
		if err != nil {
			closeRawBody(resp)
			return nil, p.wrapFetchError(ctx, current, err)
		}

		status := resp.StatusCode()
		location := resp.Header().Get("Location")
		if isRedirect(status) && location != "" {
			next, err := resolveLocation(current, location)
			if err != nil {
				closeRawBody(resp)
				return nil, fmt.Errorf("invalid redirect location %q from %s: %w", location, current, err)
			}
			hops = append(hops, view.Hop{Url: current, Status: status, Location: next})
			if len(hops) < p.maxRedirects {
				closeRawBody(resp)
				log.Debugf("Redirecting to: %s", next)
				current = next
				continue
			}
			log.Warnf("Stopped following redirects for %s after %d hops", targetUrl, len(hops))
		}

		body, err := readBody(resp.RawResponse, p.maxBodyBytes)
		if err != nil {
			return nil, p.wrapFetchError(ctx, current, err)
		}

		return &view.Resolution{
			InitialUrl:  targetUrl,
			FinalUrl:    current,
			StatusCode:  status,
			ContentType: resp.Header().Get("Content-Type"),
			Header:      resp.Header().Clone(),
			Body:        body,
			Hops:        hops,
			Latency:     time.Since(start),
		}, nil
	}
}

func (p pageClientImpl) wrapFetchError(ctx context.Context, current string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w (%s after %s)", ErrFetchTimeout, current, p.timeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w (%s: %s)", ErrFetchTimeout, current, err.Error())
	}
	return fmt.Errorf("fetch %s: %w", current, err)
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400
}

func resolveLocation(current string, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

func closeRawBody(resp *resty.Response) {
	if resp == nil || resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return
	}
	_ = resp.RawResponse.Body.Close()
}
