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

// PinataClient speaks Pinata's own REST API, which predates the
// standard pinning API. Pins are addressed by hash, so record request
// ids are the pin hashes themselves and DeletePin unpins by hash.
type PinataClient struct {
	BaseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
	logger     *logging.Logger
}

func newPinataClient(serviceName string, credential Credential, pageSize int, logger *logging.Logger) (PinClient, error) {
	return NewPinataClient("", credential.Token, pageSize, logger), nil
}

// NewPinataClient builds a Pinata client. BaseURL is overridable for
// tests; the default is the public API.
func NewPinataClient(baseURL, token string, pageSize int, logger *logging.Logger) *PinataClient {
	if baseURL == "" {
		baseURL = "https://api.pinata.cloud"
	}
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 1000
	}
	return &PinataClient{
		BaseURL:    baseURL,
		token:      token,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (client *PinataClient) Service() string {
	return constants.SvcPinata
}

func (client *PinataClient) PageSize() int {
	return client.pageSize
}

func (client *PinataClient) ValidateCredential() *PinResponse {
	resp := client.Pin(constants.TestPinCID)
	if resp.StatusCode() == http.StatusUnauthorized {
		resp.Error = fmt.Errorf("invalid Pinata JWT token")
	}
	return resp
}

func (client *PinataClient) Pin(cidStr string) *PinResponse {
	resp := NewPinResponse()
	absoluteURL := client.BaseURL + "/pinning/pinByHash"
	body, _ := json.Marshal(map[string]string{"hashToPin": cidStr})
	client.doRequest(resp, "POST", absoluteURL, bytes.NewBuffer(body))
	if resp.StatusCode() == http.StatusConflict {
		resp.Error = nil
		resp.AlreadyPinned = true
		return resp
	}
	resp.errorFromStatus("POST", absoluteURL)
	if resp.Error != nil {
		return resp
	}
	resp.RequestID = cidStr
	return resp
}

func (client *PinataClient) ListPins(limit, offset int) *PinResponse {
	resp := NewPinResponse()
	absoluteURL := fmt.Sprintf("%s/data/pinList?status=pinned&pageLimit=%d&pageOffset=%d", client.BaseURL, limit, offset)
	client.doRequest(resp, "GET", absoluteURL, nil)
	resp.errorFromStatus("GET", absoluteURL)
	if resp.Error != nil {
		return resp
	}
	list := &pinataPinList{}
	data, _ := resp.RawResponseData()
	resp.Error = json.Unmarshal(data, list)
	if resp.Error != nil {
		return resp
	}
	resp.Count = list.Count
	for i := range list.Rows {
		if record := list.Rows[i].toRecord(); record != nil {
			resp.Records = append(resp.Records, record)
		}
	}
	return resp
}

func (client *PinataClient) PinStatus(cidStr string) *PinResponse {
	resp := NewPinResponse()
	absoluteURL := fmt.Sprintf("%s/data/pinList?hashContains=%s", client.BaseURL, cidStr)
	client.doRequest(resp, "GET", absoluteURL, nil)
	resp.errorFromStatus("GET", absoluteURL)
	if resp.Error != nil {
		return resp
	}
	list := &pinataPinList{}
	data, _ := resp.RawResponseData()
	resp.Error = json.Unmarshal(data, list)
	if resp.Error != nil {
		return resp
	}
	for i := range list.Rows {
		if list.Rows[i].IpfsPinHash != cidStr {
			continue
		}
		if record := list.Rows[i].toRecord(); record != nil {
			resp.Records = append(resp.Records, record)
		}
	}
	return resp
}

func (client *PinataClient) DeletePin(requestID string) *PinResponse {
	resp := NewPinResponse()
	absoluteURL := fmt.Sprintf("%s/pinning/unpin/%s", client.BaseURL, requestID)
	client.doRequest(resp, "DELETE", absoluteURL, nil)
	resp.errorFromStatus("DELETE", absoluteURL)
	return resp
}

func (client *PinataClient) doRequest(resp *PinResponse, method, absoluteURL string, requestData io.Reader) {
	request, err := http.NewRequest(method, absoluteURL, requestData)
	resp.Request = request
	if err != nil {
		resp.Error = fmt.Errorf("%s %s: %s", method, absoluteURL, err.Error())
		return
	}
	request.Header.Add("Authorization", "Bearer "+client.token)
	request.Header.Add("Content-Type", "application/json")

	reqTime := time.Now()
	resp.Response, resp.Error = client.httpClient.Do(request)
	client.logger.Infof("%s %s completed in %s", method, absoluteURL, time.Since(reqTime))
	if resp.Error != nil {
		resp.Error = fmt.Errorf("%s %s: %s", method, absoluteURL, resp.Error.Error())
		return
	}
	resp.readResponse()
}

type pinataPinRow struct {
	ID           string  `json:"id"`
	IpfsPinHash  string  `json:"ipfs_pin_hash"`
	DatePinned   string  `json:"date_pinned"`
	DateUnpinned *string `json:"date_unpinned"`
}

type pinataPinList struct {
	Count int            `json:"count"`
	Rows  []pinataPinRow `json:"rows"`
}

// Pinata rows carry no pin status. A row without an unpin date is a
// live pin.
func (row *pinataPinRow) toRecord() *service.PinRecord {
	if row.IpfsPinHash == "" || row.DateUnpinned != nil {
		return nil
	}
	createdAt, _ := time.Parse(time.RFC3339, row.DatePinned)
	return &service.PinRecord{
		CID:       row.IpfsPinHash,
		Status:    constants.PinStatusPinned,
		RequestID: row.IpfsPinHash,
		CreatedAt: createdAt,
	}
}
