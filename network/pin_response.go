package network

import (
	"io"
	"net/http"

	"github.com/theonetwoone/CYBER-repinning/models/service"
)

// PinResponse carries the outcome of one pinning service call.
type PinResponse struct {
	// The HTTP request that was (or would have been) sent. Useful
	// for logging and debugging.
	Request *http.Request

	// The HTTP response from the server. Do not try to read
	// Response.Body, since it's already been read and the stream has
	// been closed. Use the RawResponseData() method instead.
	Response *http.Response

	// The error, if any, that occurred while processing this
	// request. Errors may come from the server (4xx or 5xx
	// responses) or from the client (e.g. if it could not parse the
	// JSON response).
	Error error

	// AlreadyPinned is true when the service reported the CID was
	// pinned before this call. Still counts as success.
	AlreadyPinned bool

	// RequestID identifies the pin request on the remote service,
	// for responses that create one.
	RequestID string

	// Records holds the pin records parsed from a list or status
	// call.
	Records []*service.PinRecord

	// Count is the remote total for list calls, when the service
	// reports one.
	Count int

	hasBeenRead bool
	data        []byte
}

func NewPinResponse() *PinResponse {
	return &PinResponse{
		Records: make([]*service.PinRecord, 0),
	}
}

// Succeeded is true when the call completed without error.
func (resp *PinResponse) Succeeded() bool {
	return resp.Error == nil
}

// StatusCode returns the HTTP status, or zero if no response came
// back at all.
func (resp *PinResponse) StatusCode() int {
	if resp.Response == nil {
		return 0
	}
	return resp.Response.StatusCode
}

// RateLimited is true when the service told us to slow down.
func (resp *PinResponse) RateLimited() bool {
	return resp.StatusCode() == http.StatusTooManyRequests
}

func (resp *PinResponse) FirstRecord() *service.PinRecord {
	if len(resp.Records) == 0 {
		return nil
	}
	return resp.Records[0]
}

// RawResponseData returns the body of the HTTP response.
func (resp *PinResponse) RawResponseData() ([]byte, error) {
	if !resp.hasBeenRead {
		resp.readResponse()
	}
	return resp.data, resp.Error
}

// Reads the body of an HTTP response object, closes the stream, and
// returns a byte slice. You must read and close the response body, or
// the HTTP connection will remain open and will eventually exhaust
// file handles.
func (resp *PinResponse) readResponse() {
	if !resp.hasBeenRead && resp.Response != nil && resp.Response.Body != nil {
		resp.data, resp.Error = io.ReadAll(resp.Response.Body)
		resp.Response.Body.Close()
		resp.hasBeenRead = true
	}
}

// ErrorFromStatus turns a non-2xx response into resp.Error with the
// body included for context.
func (resp *PinResponse) errorFromStatus(method, absoluteURL string) {
	if resp.Error != nil || resp.Response == nil {
		return
	}
	if resp.Response.StatusCode >= 400 {
		body, _ := resp.RawResponseData()
		resp.Error = NewHttpError(method, absoluteURL,
			resp.Response.StatusCode, string(body))
	}
}
