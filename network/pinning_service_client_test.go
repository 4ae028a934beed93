package network_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/network"
	"github.com/theonetwoone/CYBER-repinning/util/logger"
)

const testToken = "test-bearer-token"

func newPinsTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *network.PinningServiceClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := network.NewPinningServiceClient(
		constants.Svc4everland, server.URL+"/pins", testToken, 1000, logger.DiscardLogger())
	return server, client
}

func TestPinSuccess(t *testing.T) {
	_, client := newPinsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		body := map[string]string{}
		require.Nil(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "QmSomeCid", body["cid"])
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"requestid":"req-1","status":"queued","created":"2026-08-30T10:00:00Z","pin":{"cid":"QmSomeCid"}}`)
	})
	resp := client.Pin("QmSomeCid")
	require.Nil(t, resp.Error)
	assert.True(t, resp.Succeeded())
	assert.False(t, resp.AlreadyPinned)
	assert.Equal(t, "req-1", resp.RequestID)
	require.NotNil(t, resp.FirstRecord())
	assert.Equal(t, constants.PinStatusQueued, resp.FirstRecord().Status)
}

func TestPinAlreadyPinned(t *testing.T) {
	_, client := newPinsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"error":{"reason":"DUPLICATE_OBJECT"}}`)
	})
	resp := client.Pin("QmSomeCid")
	require.Nil(t, resp.Error)
	assert.True(t, resp.Succeeded())
	assert.True(t, resp.AlreadyPinned)
}

func TestPinServerError(t *testing.T) {
	_, client := newPinsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	})
	resp := client.Pin("QmSomeCid")
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Error(), "500")
	assert.Contains(t, resp.Error.Error(), "boom")
}

func TestValidateCredential(t *testing.T) {
	var pinnedCID string
	_, client := newPinsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{}
		json.NewDecoder(r.Body).Decode(&body)
		pinnedCID = body["cid"]
		w.WriteHeader(http.StatusConflict)
	})
	resp := client.ValidateCredential()
	require.Nil(t, resp.Error)
	assert.Equal(t, constants.TestPinCID, pinnedCID)
}

func TestValidateCredentialBadToken(t *testing.T) {
	_, client := newPinsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	resp := client.ValidateCredential()
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Error(), "invalid bearer token")
}

func TestListPins(t *testing.T) {
	_, client := newPinsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "250", r.URL.Query().Get("limit"))
		assert.Equal(t, "500", r.URL.Query().Get("offset"))
		fmt.Fprint(w, `{"count":12345,"results":[
			{"requestid":"a","status":"pinned","created":"2026-01-02T03:04:05Z","pin":{"cid":"QmA"}},
			{"requestid":"b","status":"queued","created":"2026-01-03T00:00:00Z","pin":{"cid":"QmB"}},
			{"requestid":"c","status":"","pin":{"cid":"QmC"}}
		]}`)
	})
	resp := client.ListPins(250, 500)
	require.Nil(t, resp.Error)
	assert.Equal(t, 12345, resp.Count)
	require.Equal(t, 3, len(resp.Records))
	assert.Equal(t, "QmA", resp.Records[0].CID)
	assert.Equal(t, constants.PinStatusPinned, resp.Records[0].Status)
	assert.Equal(t, "a", resp.Records[0].RequestID)
	assert.Equal(t, 2026, resp.Records[0].CreatedAt.Year())
	assert.Equal(t, constants.PinStatusUnknown, resp.Records[2].Status)
}

func TestListPinsRateLimited(t *testing.T) {
	_, client := newPinsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	resp := client.ListPins(1000, 0)
	assert.True(t, resp.RateLimited())
	assert.NotNil(t, resp.Error)
}

func TestPinStatusFound(t *testing.T) {
	_, client := newPinsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pins/QmA", r.URL.Path)
		fmt.Fprint(w, `{"requestid":"a","status":"pinned","created":"2026-01-02T03:04:05Z","pin":{"cid":"QmA"}}`)
	})
	resp := client.PinStatus("QmA")
	require.Nil(t, resp.Error)
	require.NotNil(t, resp.FirstRecord())
	assert.Equal(t, constants.PinStatusPinned, resp.FirstRecord().Status)
}

func TestPinStatusNotFound(t *testing.T) {
	_, client := newPinsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	resp := client.PinStatus("QmMissing")
	require.Nil(t, resp.Error)
	assert.Nil(t, resp.FirstRecord())
}

func TestDeletePin(t *testing.T) {
	var method, path string
	_, client := newPinsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	})
	resp := client.DeletePin("req-9")
	require.Nil(t, resp.Error)
	assert.Equal(t, "DELETE", method)
	assert.Equal(t, "/pins/req-9", path)
}
