package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gopkg.in/resty.v1"
)

const RobotsUserAgent = "AdSense-Analyzer-Bot/1.0"

// MaxRobotsBytes bounds the robots.txt read. Longer files are truncated.
const MaxRobotsBytes = 512 * 1024

type RobotsFile struct {
	Url        string
	StatusCode int
	Body       []byte
}

func (r RobotsFile) Found() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RobotsClient downloads {origin}/robots.txt independently of the page fetch.
type RobotsClient interface {
	FetchRobots(ctx context.Context, origin string) (*RobotsFile, error)
}

func NewRobotsClient(timeout time.Duration) RobotsClient {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	cl := http.Client{Timeout: timeout}
	client := resty.NewWithClient(&cl)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	client.SetHeader("User-Agent", RobotsUserAgent)

	return &robotsClientImpl{client: client, timeout: timeout}
}

type robotsClientImpl struct {
	client  *resty.Client
	timeout time.Duration
}

func (r robotsClientImpl) FetchRobots(ctx context.Context, origin string) (*RobotsFile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	robotsUrl := strings.TrimSuffix(origin, "/") + "/robots.txt"
	resp, err := r.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(robotsUrl)
	if err != nil {
		closeRawBody(resp)
		return nil, r.wrapError(ctx, robotsUrl, err)
	}
	defer closeRawBody(resp)

	body, err := io.ReadAll(io.LimitReader(resp.RawResponse.Body, MaxRobotsBytes))
	if err != nil {
		return nil, r.wrapError(ctx, robotsUrl, err)
	}

	return &RobotsFile{
		Url:        robotsUrl,
		StatusCode: resp.StatusCode(),
		Body:       body,
	}, nil
}

func (r robotsClientImpl) wrapError(ctx context.Context, robotsUrl string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w (%s)", ErrFetchTimeout, robotsUrl)
	}
	return fmt.Errorf("failed to fetch %s: %w", robotsUrl, err)
}
