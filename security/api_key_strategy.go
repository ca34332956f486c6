package security

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/shaj13/go-guardian/v2/auth"
)

const ApiKeyHeader = "api-key"

func NewApiKeyStrategy(apiKey string) auth.Strategy {
	return &apiKeyStrategyImpl{apiKey: []byte(apiKey)}
}

type apiKeyStrategyImpl struct {
	apiKey []byte
}

func (a apiKeyStrategyImpl) Authenticate(ctx context.Context, r *http.Request) (auth.Info, error) {
	apiKeyHeader := r.Header.Get(ApiKeyHeader)
	if apiKeyHeader == "" {
		return nil, fmt.Errorf("authentication failed: %v is empty", ApiKeyHeader)
	}
	if !validKey(a.apiKey, apiKeyHeader) {
		return nil, fmt.Errorf("authentication failed: %v is not valid", ApiKeyHeader)
	}
	return auth.NewDefaultUser("api-key", "api-key", []string{}, auth.Extensions{}), nil
}

func validKey(expected []byte, actual string) bool {
	return len(expected) > 0 && subtle.ConstantTimeCompare(expected, []byte(actual)) == 1
}
