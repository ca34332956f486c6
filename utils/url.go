package utils

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Netcracker/qubership-site-readiness-service/exception"
)

// NormalizeTargetUrl trims user input, defaults the scheme to https and validates the result.
func NormalizeTargetUrl(raw string) (string, error) {
	target := strings.TrimSpace(raw)
	if target == "" {
		return "", &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "url"},
		}
	}
	lower := strings.ToLower(target)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		if strings.Contains(target, "://") {
			scheme := target[:strings.Index(target, "://")]
			return "", &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.UnsupportedURLScheme,
				Message: exception.UnsupportedURLSchemeMsg,
				Params:  map[string]interface{}{"scheme": scheme},
			}
		}
		target = "https://" + target
	}

	parsed, err := url.Parse(target)
	if err != nil || parsed.Hostname() == "" {
		debug := ""
		if err != nil {
			debug = err.Error()
		}
		return "", &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURL,
			Message: exception.InvalidURLMsg,
			Params:  map[string]interface{}{"url": raw},
			Debug:   debug,
		}
	}
	return parsed.String(), nil
}

func IsSecureUrl(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Scheme, "https")
}

// InsecureVariant swaps an https URL to plain http, keeping everything else intact.
func InsecureVariant(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || !strings.EqualFold(parsed.Scheme, "https") {
		return u
	}
	parsed.Scheme = "http"
	return parsed.String()
}

func Origin(u string) (string, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return "", err
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}
