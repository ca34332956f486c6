package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemInfoDefaults(t *testing.T) {
	for _, env := range []string{LISTEN_ADDRESS, FETCH_TIMEOUT_SEC, MAX_REDIRECTS, MAX_BODY_BYTES, ROBOTS_TIMEOUT_SEC,
		ROBOTS_FAIL_ON_UNREACHABLE, ACTIVE_RULESET, RATE_LIMIT_RPS, RATE_LIMIT_BURST, CONTENT_REVIEW_TIMEOUT_SEC} {
		t.Setenv(env, "")
	}

	s, err := NewSystemInfoService()
	require.NoError(t, err)

	assert.Equal(t, ":8080", s.GetListenAddress())
	assert.Equal(t, 30*time.Second, s.GetFetchTimeout())
	assert.Equal(t, 5, s.GetMaxRedirects())
	assert.Equal(t, int64(5*1024*1024), s.GetMaxBodyBytes())
	assert.Equal(t, 8*time.Second, s.GetRobotsTimeout())
	assert.False(t, s.IsRobotsFailOnUnreachable())
	assert.Equal(t, "v1", s.GetActiveRuleset())
	assert.Zero(t, s.GetRateLimitRps())
	assert.Equal(t, 20*time.Second, s.GetContentReviewTimeout())
}

func TestSystemInfoOverrides(t *testing.T) {
	t.Setenv(FETCH_TIMEOUT_SEC, "10")
	t.Setenv(MAX_REDIRECTS, "3")
	t.Setenv(ROBOTS_FAIL_ON_UNREACHABLE, "true")
	t.Setenv(ACTIVE_RULESET, "v2")
	t.Setenv(RATE_LIMIT_RPS, "0.5")
	t.Setenv(RATE_LIMIT_BURST, "2")

	s, err := NewSystemInfoService()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, s.GetFetchTimeout())
	assert.Equal(t, 3, s.GetMaxRedirects())
	assert.True(t, s.IsRobotsFailOnUnreachable())
	assert.Equal(t, "v2", s.GetActiveRuleset())
	assert.Equal(t, 0.5, s.GetRateLimitRps())
	assert.Equal(t, 2, s.GetRateLimitBurst())
}

func TestSystemInfoInvalidValue(t *testing.T) {
	t.Setenv(MAX_REDIRECTS, "many")

	_, err := NewSystemInfoService()
	assert.Error(t, err)
}
