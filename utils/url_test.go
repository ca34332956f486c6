package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Netcracker/qubership-site-readiness-service/exception"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTargetUrl(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "example.com", want: "https://example.com"},
		{in: "  http://example.com/a?b=c  ", want: "http://example.com/a?b=c"},
		{in: "https://example.com/", want: "https://example.com/"},
		{in: "HTTPS://Example.com", want: "https://Example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTargetUrl(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTargetUrlErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "ftp://example.com", "https://"} {
		_, err := NormalizeTargetUrl(in)
		require.Error(t, err, in)

		var customErr *exception.CustomError
		require.True(t, errors.As(err, &customErr), in)
		assert.Equal(t, http.StatusBadRequest, customErr.Status)
	}
}

func TestUrlHelpers(t *testing.T) {
	assert.True(t, IsSecureUrl("https://example.com"))
	assert.False(t, IsSecureUrl("http://example.com"))
	assert.Equal(t, "http://example.com:8443/a", InsecureVariant("https://example.com:8443/a"))
	assert.Equal(t, "http://example.com", InsecureVariant("http://example.com"))

	origin, err := Origin("https://example.com/blog/post?id=1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", origin)
}
