package network

import (
	"fmt"
	"strings"

	"github.com/op/go-logging"
	"github.com/theonetwoone/CYBER-repinning/constants"
)

// PinClient is the capability every pinning service adapter provides.
// Pin is idempotent: an "already pinned" response counts as success.
// ListPins pages through the remote inventory with no guarantee of
// server-side CID filtering, so callers own their scan budgets.
type PinClient interface {
	Service() string
	PageSize() int

	// ValidateCredential makes one cheap round trip, pinning a
	// well-known test CID, before any bulk operation.
	ValidateCredential() *PinResponse

	Pin(cidStr string) *PinResponse
	ListPins(limit, offset int) *PinResponse

	// PinStatus is a targeted single-CID lookup, used as a bounded
	// fallback when the paged scan did not find a CID.
	PinStatus(cidStr string) *PinResponse

	DeletePin(requestID string) *PinResponse
}

type pinClientFactory func(serviceName string, credential Credential, pageSize int, logger *logging.Logger) (PinClient, error)

var pinClientFactories = map[string]pinClientFactory{
	constants.Svc4everland:   newPinningServiceClient,
	constants.SvcFilebase:    newPinningServiceClient,
	constants.SvcNFTStorage:  newPinningServiceClient,
	constants.SvcWeb3Storage: newPinningServiceClient,
	constants.SvcPinata:      newPinataClient,
	constants.SvcInfura:      newInfuraClient,
}

// NewPinClient builds the adapter for the named pinning service.
// Service names tolerate display suffixes like "Pinata (FREE)".
func NewPinClient(serviceName string, credential Credential, pageSize int, logger *logging.Logger) (PinClient, error) {
	name := CleanServiceName(serviceName)
	factory, ok := pinClientFactories[name]
	if !ok {
		return nil, fmt.Errorf("unsupported pinning service: %s", serviceName)
	}
	if err := credential.Validate(name); err != nil {
		return nil, err
	}
	return factory(name, credential, pageSize, logger)
}

// CleanServiceName strips display suffixes and lowercases the name.
func CleanServiceName(serviceName string) string {
	return strings.ToLower(strings.SplitN(strings.TrimSpace(serviceName), " ", 2)[0])
}
