package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"

	"github.com/Netcracker/qubership-site-readiness-service/client"
	"github.com/Netcracker/qubership-site-readiness-service/exception"
	"github.com/Netcracker/qubership-site-readiness-service/utils"
	"github.com/Netcracker/qubership-site-readiness-service/view"
	log "github.com/sirupsen/logrus"
)

// PageRetriever resolves the requested URL and falls back to plain http once when the secure
// variant cannot be retrieved. Failures are returned as *exception.CustomError.
type PageRetriever interface {
	Retrieve(ctx context.Context, targetUrl string) (*view.Resolution, error)
}

func NewPageRetriever(pageClient client.PageClient) PageRetriever {
	return &pageRetrieverImpl{pageClient: pageClient}
}

type pageRetrieverImpl struct {
	pageClient client.PageClient
}

func (p pageRetrieverImpl) Retrieve(ctx context.Context, targetUrl string) (*view.Resolution, error) {
	requestUrl := targetUrl
	res, err := p.pageClient.Resolve(ctx, requestUrl)
	if err == nil && res.Ok() {
		return res, nil
	}

	if utils.IsSecureUrl(targetUrl) {
		insecureUrl := utils.InsecureVariant(targetUrl)
		if err != nil {
			log.Infof("HTTPS request to %s failed (%s), trying HTTP", targetUrl, err.Error())
		} else {
			log.Infof("HTTPS request to %s ended with status %d, trying HTTP", targetUrl, res.StatusCode)
		}
		requestUrl = insecureUrl
		res, err = p.pageClient.Resolve(ctx, requestUrl)
		if err == nil {
			// the rules compare the final URL against what was requested
			res.InitialUrl = targetUrl
		}
	}

	if err != nil {
		return nil, makeFetchError(requestUrl, err)
	}
	if !res.Ok() {
		return nil, &exception.CustomError{
			Status:  http.StatusBadGateway,
			Code:    exception.UpstreamStatus,
			Message: exception.UpstreamStatusMsg,
			Params:  map[string]interface{}{"status": fmt.Sprintf("%d %s", res.StatusCode, http.StatusText(res.StatusCode))},
			Debug:   res.FinalUrl,
		}
	}
	return res, nil
}

func makeFetchError(requestUrl string, err error) error {
	var customError *exception.CustomError
	if errors.As(err, &customError) {
		return customError
	}

	var urlErr *url.Error
	target := requestUrl
	if errors.As(err, &urlErr) {
		target = urlErr.URL
	}

	if errors.Is(err, client.ErrFetchTimeout) {
		return &exception.CustomError{
			Status:  http.StatusGatewayTimeout,
			Code:    exception.FetchTimeout,
			Message: exception.FetchTimeoutMsg,
			Params:  map[string]interface{}{"url": target},
			Debug:   err.Error(),
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &exception.CustomError{
			Status:  http.StatusBadGateway,
			Code:    exception.DnsResolutionFailed,
			Message: exception.DnsResolutionFailedMsg,
			Params:  map[string]interface{}{"host": dnsErr.Name},
			Debug:   err.Error(),
		}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &exception.CustomError{
			Status:  http.StatusBadGateway,
			Code:    exception.ConnectionRefused,
			Message: exception.ConnectionRefusedMsg,
			Params:  map[string]interface{}{"url": target},
			Debug:   err.Error(),
		}
	}

	return &exception.CustomError{
		Status:  http.StatusBadGateway,
		Code:    exception.FetchFailed,
		Message: exception.FetchFailedMsg,
		Params:  map[string]interface{}{"url": target},
		Debug:   err.Error(),
	}
}
