package constants_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/theonetwoone/CYBER-repinning/constants"
)

func TestActivePinStatuses(t *testing.T) {
	assert.Contains(t, constants.ActivePinStatuses, constants.PinStatusPinned)
	assert.Contains(t, constants.ActivePinStatuses, constants.PinStatusQueued)
	assert.Contains(t, constants.ActivePinStatuses, constants.PinStatusPinning)
	assert.Contains(t, constants.ActivePinStatuses, constants.PinStatusProcessing)
	assert.NotContains(t, constants.ActivePinStatuses, constants.PinStatusFailed)
	assert.NotContains(t, constants.ActivePinStatuses, constants.PinStatusUnknown)
}

func TestPinStatusPriority(t *testing.T) {
	assert.Equal(t, constants.PinStatusPinned, constants.PinStatusPriority[0])
	assert.Equal(t, constants.PinStatusFailed,
		constants.PinStatusPriority[len(constants.PinStatusPriority)-1])
}

func TestGatewayLists(t *testing.T) {
	for _, gw := range constants.ShuttingDownGateways {
		assert.Contains(t, constants.RiskProbeGateways, gw)
	}
	for _, gw := range constants.PublicGateways {
		assert.NotContains(t, constants.ShuttingDownGateways, gw)
	}
}
