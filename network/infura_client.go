package network

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/op/go-logging"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/models/service"
)

// InfuraClient drives the Infura IPFS node API. Auth is a project
// key id and secret sent as basic auth, and every call is a POST in
// go-ipfs style. The node API has no pagination, so ListPins fetches
// the whole pin set once and slices it locally.
type InfuraClient struct {
	BaseURL    string
	keyID      string
	secret     string
	pageSize   int
	httpClient *http.Client
	logger     *logging.Logger
}

func newInfuraClient(serviceName string, credential Credential, pageSize int, logger *logging.Logger) (PinClient, error) {
	return NewInfuraClient("", credential.KeyID, credential.Secret, pageSize, logger), nil
}

func NewInfuraClient(baseURL, keyID, secret string, pageSize int, logger *logging.Logger) *InfuraClient {
	if baseURL == "" {
		baseURL = "https://ipfs.infura.io:5001"
	}
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &InfuraClient{
		BaseURL:    baseURL,
		keyID:      keyID,
		secret:     secret,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (client *InfuraClient) Service() string {
	return constants.SvcInfura
}

func (client *InfuraClient) PageSize() int {
	return client.pageSize
}

func (client *InfuraClient) ValidateCredential() *PinResponse {
	resp := client.Pin(constants.TestPinCID)
	if resp.StatusCode() == http.StatusUnauthorized {
		resp.Error = fmt.Errorf("invalid Infura project id or secret")
	}
	return resp
}

func (client *InfuraClient) Pin(cidStr string) *PinResponse {
	resp := NewPinResponse()
	absoluteURL := fmt.Sprintf("%s/api/v0/pin/add?arg=%s", client.BaseURL, cidStr)
	client.doRequest(resp, absoluteURL)
	resp.errorFromStatus("POST", absoluteURL)
	if resp.Error == nil {
		resp.RequestID = cidStr
	}
	return resp
}

func (client *InfuraClient) ListPins(limit, offset int) *PinResponse {
	resp := client.allPins()
	if resp.Error != nil {
		return resp
	}
	all := resp.Records
	resp.Count = len(all)
	if offset >= len(all) {
		resp.Records = nil
		return resp
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	resp.Records = all[offset:end]
	return resp
}

func (client *InfuraClient) PinStatus(cidStr string) *PinResponse {
	resp := NewPinResponse()
	absoluteURL := fmt.Sprintf("%s/api/v0/pin/ls?arg=%s", client.BaseURL, cidStr)
	client.doRequest(resp, absoluteURL)
	// The node answers 500 with "not pinned" in the body for unknown
	// CIDs. Treat that as a clean not-found.
	if resp.StatusCode() == http.StatusInternalServerError {
		resp.Error = nil
		return resp
	}
	resp.errorFromStatus("POST", absoluteURL)
	if resp.Error != nil {
		return resp
	}
	keys := &infuraPinKeys{}
	data, _ := resp.RawResponseData()
	resp.Error = json.Unmarshal(data, keys)
	if resp.Error != nil {
		return resp
	}
	if _, ok := keys.Keys[cidStr]; ok {
		resp.Records = append(resp.Records, &service.PinRecord{
			CID:       cidStr,
			Status:    constants.PinStatusPinned,
			RequestID: cidStr,
		})
	}
	return resp
}

// DeletePin removes a pin by CID. Request ids and CIDs are the same
// thing on a plain IPFS node.
func (client *InfuraClient) DeletePin(requestID string) *PinResponse {
	resp := NewPinResponse()
	absoluteURL := fmt.Sprintf("%s/api/v0/pin/rm?arg=%s", client.BaseURL, requestID)
	client.doRequest(resp, absoluteURL)
	resp.errorFromStatus("POST", absoluteURL)
	return resp
}

func (client *InfuraClient) allPins() *PinResponse {
	resp := NewPinResponse()
	absoluteURL := client.BaseURL + "/api/v0/pin/ls"
	client.doRequest(resp, absoluteURL)
	resp.errorFromStatus("POST", absoluteURL)
	if resp.Error != nil {
		return resp
	}
	keys := &infuraPinKeys{}
	data, _ := resp.RawResponseData()
	resp.Error = json.Unmarshal(data, keys)
	if resp.Error != nil {
		return resp
	}
	cids := make([]string, 0, len(keys.Keys))
	for cidStr := range keys.Keys {
		cids = append(cids, cidStr)
	}
	// Map order is random; keep pages stable across calls.
	sort.Strings(cids)
	for _, cidStr := range cids {
		resp.Records = append(resp.Records, &service.PinRecord{
			CID:       cidStr,
			Status:    constants.PinStatusPinned,
			RequestID: cidStr,
		})
	}
	return resp
}

func (client *InfuraClient) doRequest(resp *PinResponse, absoluteURL string) {
	request, err := http.NewRequest("POST", absoluteURL, nil)
	resp.Request = request
	if err != nil {
		resp.Error = fmt.Errorf("POST %s: %s", absoluteURL, err.Error())
		return
	}
	request.SetBasicAuth(client.keyID, client.secret)

	reqTime := time.Now()
	resp.Response, resp.Error = client.httpClient.Do(request)
	client.logger.Infof("POST %s completed in %s", absoluteURL, time.Since(reqTime))
	if resp.Error != nil {
		resp.Error = fmt.Errorf("POST %s: %s", absoluteURL, resp.Error.Error())
		return
	}
	resp.readResponse()
}

type infuraPinKeys struct {
	Keys map[string]struct {
		Type string `json:"Type"`
	} `json:"Keys"`
}
