package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/op/go-logging"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/models/service"
)

// pinsEndpoints maps services that implement the IPFS Pinning Service
// API to their pins endpoint.
var pinsEndpoints = map[string]string{
	constants.Svc4everland:   "https://api.4everland.dev/pins",
	constants.SvcFilebase:    "https://api.filebase.io/v1/ipfs/pins",
	constants.SvcNFTStorage:  "https://api.nft.storage/pins",
	constants.SvcWeb3Storage: "https://api.web3.storage/pins",
}

// PinningServiceClient talks to any service implementing the standard
// IPFS Pinning Service API with bearer token auth.
type PinningServiceClient struct {
	ServiceName string
	PinsURL     string
	token       string
	pageSize    int
	httpClient  *http.Client
	logger      *logging.Logger
}

func newPinningServiceClient(serviceName string, credential Credential, pageSize int, logger *logging.Logger) (PinClient, error) {
	return NewPinningServiceClient(serviceName, "", credential.Token, pageSize, logger), nil
}

// NewPinningServiceClient builds a client for one of the standard
// pinning API services. PinsURL is overridable for tests.
func NewPinningServiceClient(serviceName, pinsURL, token string, pageSize int, logger *logging.Logger) *PinningServiceClient {
	if pinsURL == "" {
		pinsURL = pinsEndpoints[serviceName]
	}
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &PinningServiceClient{
		ServiceName: serviceName,
		PinsURL:     pinsURL,
		token:       token,
		pageSize:    pageSize,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

func (client *PinningServiceClient) Service() string {
	return client.ServiceName
}

func (client *PinningServiceClient) PageSize() int {
	return client.pageSize
}

// ValidateCredential pins the well-known test CID. 409 means the CID
// is already there, which proves the token works just as well.
func (client *PinningServiceClient) ValidateCredential() *PinResponse {
	resp := client.Pin(constants.TestPinCID)
	if resp.StatusCode() == http.StatusUnauthorized {
		resp.Error = fmt.Errorf("invalid bearer token for %s", client.ServiceName)
	}
	return resp
}

func (client *PinningServiceClient) Pin(cidStr string) *PinResponse {
	resp := NewPinResponse()
	body, _ := json.Marshal(map[string]string{"cid": cidStr})
	client.doRequest(resp, "POST", client.PinsURL, bytes.NewBuffer(body))
	if resp.StatusCode() == http.StatusConflict {
		resp.Error = nil
		resp.AlreadyPinned = true
		return resp
	}
	resp.errorFromStatus("POST", client.PinsURL)
	if resp.Error != nil {
		return resp
	}
	entry := &pinEntry{}
	data, _ := resp.RawResponseData()
	if err := json.Unmarshal(data, entry); err == nil {
		resp.RequestID = entry.RequestID
		if record := entry.toRecord(); record != nil {
			resp.Records = append(resp.Records, record)
		}
	}
	return resp
}

func (client *PinningServiceClient) ListPins(limit, offset int) *PinResponse {
	resp := NewPinResponse()
	absoluteURL := fmt.Sprintf("%s?limit=%d&offset=%d", client.PinsURL, limit, offset)
	client.doRequest(resp, "GET", absoluteURL, nil)
	resp.errorFromStatus("GET", absoluteURL)
	if resp.Error != nil {
		return resp
	}
	list := &pinList{}
	data, _ := resp.RawResponseData()
	resp.Error = json.Unmarshal(data, list)
	if resp.Error != nil {
		return resp
	}
	resp.Count = list.Count
	for i := range list.Results {
		if record := list.Results[i].toRecord(); record != nil {
			resp.Records = append(resp.Records, record)
		}
	}
	return resp
}

// PinStatus looks up one CID directly. Not found is a clean answer,
// not an error: the response just carries no records.
func (client *PinningServiceClient) PinStatus(cidStr string) *PinResponse {
	resp := NewPinResponse()
	absoluteURL := fmt.Sprintf("%s/%s", client.PinsURL, cidStr)
	client.doRequest(resp, "GET", absoluteURL, nil)
	if resp.StatusCode() == http.StatusNotFound {
		resp.Error = nil
		return resp
	}
	resp.errorFromStatus("GET", absoluteURL)
	if resp.Error != nil {
		return resp
	}
	entry := &pinEntry{}
	data, _ := resp.RawResponseData()
	resp.Error = json.Unmarshal(data, entry)
	if resp.Error != nil {
		return resp
	}
	record := entry.toRecord()
	if record == nil {
		// Some services answer a bare status without the pin object.
		record = &service.PinRecord{CID: cidStr, Status: entry.Status, RequestID: entry.RequestID}
	}
	resp.Records = append(resp.Records, record)
	return resp
}

func (client *PinningServiceClient) DeletePin(requestID string) *PinResponse {
	resp := NewPinResponse()
	absoluteURL := fmt.Sprintf("%s/%s", client.PinsURL, requestID)
	client.doRequest(resp, "DELETE", absoluteURL, nil)
	resp.errorFromStatus("DELETE", absoluteURL)
	return resp
}

// doRequest issues an HTTP request, reads the response, and closes
// the connection to the remote server.
func (client *PinningServiceClient) doRequest(resp *PinResponse, method, absoluteURL string, requestData io.Reader) {
	request, err := http.NewRequest(method, absoluteURL, requestData)
	resp.Request = request
	if err != nil {
		resp.Error = fmt.Errorf("%s %s: %s", method, absoluteURL, err.Error())
		return
	}
	request.Header.Add("Authorization", "Bearer "+client.token)
	request.Header.Add("Content-Type", "application/json")
	request.Header.Add("Accept", "application/json")

	reqTime := time.Now()
	resp.Response, resp.Error = client.httpClient.Do(request)
	client.logger.Infof("%s %s completed in %s", method, absoluteURL, time.Since(reqTime))
	if resp.Error != nil {
		resp.Error = fmt.Errorf("%s %s: %s", method, absoluteURL, resp.Error.Error())
		return
	}
	resp.readResponse()
}

type pinEntry struct {
	RequestID string `json:"requestid"`
	Status    string `json:"status"`
	Created   string `json:"created"`
	Pin       struct {
		Cid string `json:"cid"`
	} `json:"pin"`
}

type pinList struct {
	Count   int        `json:"count"`
	Results []pinEntry `json:"results"`
}

func (entry *pinEntry) toRecord() *service.PinRecord {
	if entry.Pin.Cid == "" {
		return nil
	}
	status := entry.Status
	if status == "" {
		status = constants.PinStatusUnknown
	}
	createdAt, _ := time.Parse(time.RFC3339, entry.Created)
	return &service.PinRecord{
		CID:       entry.Pin.Cid,
		Status:    status,
		RequestID: entry.RequestID,
		CreatedAt: createdAt,
	}
}
