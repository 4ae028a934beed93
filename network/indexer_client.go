package network

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/op/go-logging"
	"github.com/theonetwoone/CYBER-repinning/models/algorand"
)

// IndexerClient reads asset data from an Algorand indexer's REST API.
type IndexerClient struct {
	HostURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

func NewIndexerClient(hostURL string, logger *logging.Logger) *IndexerClient {
	return &IndexerClient{
		HostURL:    hostURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// CreatedAssetsPage fetches one page of assets created by an address.
// include-all asks the indexer for deleted and problematic assets too;
// the builder filters those out itself.
func (client *IndexerClient) CreatedAssetsPage(creatorAddress, nextToken string) *IndexerResponse {
	resp := NewIndexerResponse()
	relativeURL := fmt.Sprintf("/v2/accounts/%s/created-assets?include-all=true",
		url.PathEscape(creatorAddress))
	if nextToken != "" {
		relativeURL += "&next=" + url.QueryEscape(nextToken)
	}
	absoluteURL := client.HostURL + relativeURL
	client.doRequest(resp, absoluteURL)
	if resp.Error != nil {
		return resp
	}
	list := &algorand.AssetList{}
	resp.Error = json.Unmarshal(resp.data, list)
	if resp.Error == nil {
		resp.Assets = list.Assets
		resp.NextToken = list.NextToken
	}
	return resp
}

// AllCreatedAssets walks the pagination to the end and returns every
// asset the address ever created.
func (client *IndexerClient) AllCreatedAssets(creatorAddress string) ([]*algorand.Asset, error) {
	assets := make([]*algorand.Asset, 0)
	nextToken := ""
	for {
		resp := client.CreatedAssetsPage(creatorAddress, nextToken)
		if resp.Error != nil {
			return nil, resp.Error
		}
		assets = append(assets, resp.Assets...)
		if resp.NextToken == "" {
			break
		}
		nextToken = resp.NextToken
	}
	return assets, nil
}

func (client *IndexerClient) doRequest(resp *IndexerResponse, absoluteURL string) {
	request, err := http.NewRequest("GET", absoluteURL, nil)
	resp.Request = request
	if err != nil {
		resp.Error = fmt.Errorf("GET %s: %s", absoluteURL, err.Error())
		return
	}
	request.Header.Add("Accept", "application/json")

	reqTime := time.Now()
	resp.Response, resp.Error = client.httpClient.Do(request)
	client.logger.Infof("GET %s completed in %s", absoluteURL, time.Since(reqTime))
	if resp.Error != nil {
		resp.Error = fmt.Errorf("GET %s: %s", absoluteURL, resp.Error.Error())
		return
	}
	resp.readResponse()
	if resp.Error == nil && resp.Response.StatusCode >= 400 {
		resp.Error = NewHttpError(http.MethodGet, absoluteURL,
			resp.Response.StatusCode, string(resp.data))
	}
}
