package network

import (
	"io"
	"net/http"

	"github.com/theonetwoone/CYBER-repinning/models/algorand"
)

// IndexerResponse carries the outcome of one indexer call.
type IndexerResponse struct {
	Request  *http.Request
	Response *http.Response
	Error    error

	// Assets parsed from this page.
	Assets []*algorand.Asset

	// NextToken is the continuation token for the next page. Empty
	// on the last page.
	NextToken string

	hasBeenRead bool
	data        []byte
}

func NewIndexerResponse() *IndexerResponse {
	return &IndexerResponse{
		Assets: make([]*algorand.Asset, 0),
	}
}

// RawResponseData returns the body of the HTTP response.
func (resp *IndexerResponse) RawResponseData() ([]byte, error) {
	if !resp.hasBeenRead {
		resp.readResponse()
	}
	return resp.data, resp.Error
}

func (resp *IndexerResponse) readResponse() {
	if !resp.hasBeenRead && resp.Response != nil && resp.Response.Body != nil {
		resp.data, resp.Error = io.ReadAll(resp.Response.Body)
		resp.Response.Body.Close()
		resp.hasBeenRead = true
	}
}
