package security

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shaj13/go-guardian/v2/auth"
	"github.com/shaj13/go-guardian/v2/auth/strategies/token"
	"github.com/shaj13/go-guardian/v2/auth/strategies/union"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/fifo"
	_ "github.com/shaj13/libcache/lru"
)

var strategy union.Union

// SetupGoGuardian accepts the configured key either in the api-key header or as a bearer token.
func SetupGoGuardian(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("api key is empty")
	}

	cache := libcache.LRU.New(1000)
	cache.SetTTL(time.Minute * 60)
	cache.RegisterOnExpired(func(key, _ interface{}) {
		cache.Delete(key)
	})

	expected := []byte(apiKey)
	bearerStrategy := token.New(func(_ context.Context, _ *http.Request, tkn string) (auth.Info, time.Time, error) {
		if !validKey(expected, tkn) {
			return nil, time.Time{}, fmt.Errorf("authentication failed: bearer token is not valid")
		}
		return auth.NewDefaultUser("bearer", "bearer", []string{}, auth.Extensions{}), time.Now().Add(time.Minute * 60), nil
	}, cache)

	strategy = union.New(NewApiKeyStrategy(apiKey), bearerStrategy)
	return nil
}
