package network

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/op/go-logging"
	"github.com/theonetwoone/CYBER-repinning/arc"
	"github.com/tidwall/gjson"
)

// GatewayClient fetches content from public IPFS gateways. Every call
// tries the configured gateways in order; failure on one gateway is
// never fatal while another remains.
type GatewayClient struct {
	Gateways   []string
	Timeout    time.Duration
	httpClient *http.Client
	logger     *logging.Logger
}

// ProbeResult is the outcome of checking one CID on one gateway.
type ProbeResult struct {
	Gateway       string        `json:"gateway"`
	CID           string        `json:"cid"`
	StatusCode    int           `json:"status_code"`
	Available     bool          `json:"available"`
	ResponseTime  time.Duration `json:"response_time"`
	ContentLength int64         `json:"content_length"`
	Error         error         `json:"-"`
}

func NewGatewayClient(gateways []string, timeout time.Duration, logger *logging.Logger) *GatewayClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &GatewayClient{
		Gateways:   gateways,
		Timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ResolveMediaURL fetches metadata JSON for a CID and pulls out the
// media's ipfs:// URL, directory path included. animation_url wins
// over image so video assets resolve to their video content. Returns
// the metadata body even when it holds no extractable IPFS media, to
// aid diagnostics.
func (client *GatewayClient) ResolveMediaURL(metadataCID string) (string, []byte) {
	for _, gateway := range client.Gateways {
		absoluteURL := gateway + metadataCID
		reqTime := time.Now()
		response, err := client.httpClient.Get(absoluteURL)
		client.logger.Infof("GET %s completed in %s", absoluteURL, time.Since(reqTime))
		if err != nil {
			client.logger.Warningf("Gateway %s failed for %s: %v", gateway, metadataCID, err)
			continue
		}
		body, err := io.ReadAll(response.Body)
		response.Body.Close()
		if err != nil || response.StatusCode != http.StatusOK {
			client.logger.Warningf("Gateway %s returned status %d for %s",
				gateway, response.StatusCode, metadataCID)
			continue
		}
		return mediaURLFromMetadata(body), body
	}
	return "", nil
}

// ResolveImageCID is ResolveMediaURL reduced to the bare media CID.
func (client *GatewayClient) ResolveImageCID(metadataCID string) (string, []byte) {
	mediaURL, body := client.ResolveMediaURL(metadataCID)
	if mediaURL == "" {
		return "", body
	}
	return arc.StripIPFSURL(mediaURL), body
}

func mediaURLFromMetadata(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	metadata := gjson.ParseBytes(body)
	for _, key := range []string{"animation_url", "image"} {
		value := metadata.Get(key).String()
		if strings.HasPrefix(value, "ipfs://") {
			return value
		}
	}
	return ""
}

// Head probes one CID on one gateway without downloading content.
func (client *GatewayClient) Head(gateway, cidStr string) *ProbeResult {
	result := &ProbeResult{
		Gateway: gateway,
		CID:     cidStr,
	}
	absoluteURL := gateway + cidStr
	reqTime := time.Now()
	request, err := http.NewRequest("HEAD", absoluteURL, nil)
	if err != nil {
		result.Error = err
		return result
	}
	response, err := client.httpClient.Do(request)
	result.ResponseTime = time.Since(reqTime)
	if err != nil {
		result.Error = err
		return result
	}
	io.Copy(io.Discard, response.Body)
	response.Body.Close()
	result.StatusCode = response.StatusCode
	result.Available = response.StatusCode == http.StatusOK
	result.ContentLength = response.ContentLength
	return result
}

// CIDSize asks the gateways for a CID's content length. Used to
// estimate collection storage size from a small sample.
func (client *GatewayClient) CIDSize(cidStr string) (int64, error) {
	for _, gateway := range client.Gateways {
		result := client.Head(gateway, cidStr)
		if result.Available && result.ContentLength > 0 {
			return result.ContentLength, nil
		}
	}
	return 0, fmt.Errorf("no gateway reported a size for %s", cidStr)
}
