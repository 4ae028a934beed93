package network_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/network"
	"github.com/theonetwoone/CYBER-repinning/util/logger"
)

func TestHttpError(t *testing.T) {
	err := network.NewHttpError(http.MethodDelete,
		"https://api.pinata.cloud/pinning/unpin/x", 429, "rate limit exceeded")
	assert.Equal(t, http.MethodDelete, err.Method)
	assert.Equal(t, 429, err.StatusCode)
	assert.True(t, err.RateLimited())
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "https://api.pinata.cloud/pinning/unpin/x")
	assert.Contains(t, err.Error(), "rate limit exceeded")

	assert.False(t, network.NewHttpError("GET", "u", 500, "").RateLimited())
}

// Status errors coming back from a pinning service surface as typed
// HttpErrors so callers can branch on status without string matching.
func TestClientStatusErrorsAreTyped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("maintenance window"))
		}))
	defer server.Close()

	client := network.NewPinningServiceClient(
		constants.Svc4everland, server.URL+"/pins", "token", 1000,
		logger.DiscardLogger())
	resp := client.Pin("QmYjtig7VJQ6XsnUjqqJvj7QaMcCAwtrgNdahSiFofrE7o")
	require.NotNil(t, resp.Error)

	var httpErr *network.HttpError
	require.True(t, errors.As(resp.Error, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "maintenance window")
}
