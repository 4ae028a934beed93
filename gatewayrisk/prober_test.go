package gatewayrisk_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/gatewayrisk"
	"github.com/theonetwoone/CYBER-repinning/models/common"
	"github.com/theonetwoone/CYBER-repinning/network"
	"github.com/theonetwoone/CYBER-repinning/util/logger"
)

func gatewayServer(t *testing.T, available map[string]bool) string {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cidStr := r.URL.Path[len("/ipfs/"):]
		if available[cidStr] {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server.URL + "/ipfs/"
}

func proberContext() *common.Context {
	return &common.Context{
		Logger: logger.DiscardLogger(),
		GatewayClient: network.NewGatewayClient(
			nil, time.Second, logger.DiscardLogger()),
	}
}

func TestProberClassifications(t *testing.T) {
	everywhere := "QmEverywhere11111111111111"
	fading := "QmOnlyOnDyingGateway111111"
	nowhere := "QmNowhere11111111111111111"

	stableA := gatewayServer(t, map[string]bool{everywhere: true})
	stableB := gatewayServer(t, map[string]bool{everywhere: true})
	stableC := gatewayServer(t, map[string]bool{everywhere: true})
	dying := gatewayServer(t, map[string]bool{everywhere: true, fading: true})

	prober := gatewayrisk.NewProber(proberContext())
	prober.Gateways = []string{stableA, stableB, stableC, dying}
	prober.ShuttingDown = []string{dying}

	report := prober.Run([]string{everywhere, fading, nowhere})
	require.Len(t, report.Results, 3)
	assert.NotEmpty(t, report.RunID)

	assert.Equal(t, constants.RiskLow, report.Results[0].Risk)
	assert.Len(t, report.Results[0].Available, 4)

	assert.Equal(t, constants.RiskHigh, report.Results[1].Risk)
	assert.Equal(t, []string{dying}, report.Results[1].Available)

	assert.Equal(t, constants.RiskUnreachable, report.Results[2].Risk)
	assert.Empty(t, report.Results[2].Available)

	assert.Equal(t, 1, report.RiskCounts[constants.RiskLow])
	assert.Equal(t, 1, report.RiskCounts[constants.RiskHigh])
	assert.Equal(t, 1, report.RiskCounts[constants.RiskUnreachable])
}

func TestProberMediumRisk(t *testing.T) {
	cidStr := "QmBarelyThere1111111111111"
	holding := gatewayServer(t, map[string]bool{cidStr: true})
	empty := gatewayServer(t, nil)

	prober := gatewayrisk.NewProber(proberContext())
	prober.Gateways = []string{holding, empty}
	prober.ShuttingDown = nil

	report := prober.Run([]string{cidStr})
	require.Len(t, report.Results, 1)
	assert.Equal(t, constants.RiskMedium, report.Results[0].Risk)
}

func TestProberGatewayStats(t *testing.T) {
	served := "QmServed111111111111111111"
	missing := "QmMissing11111111111111111"
	flaky := gatewayServer(t, map[string]bool{served: true})

	prober := gatewayrisk.NewProber(proberContext())
	prober.Gateways = []string{flaky}
	prober.ShuttingDown = nil

	report := prober.Run([]string{served, missing})
	require.Len(t, report.Gateways, 1)
	stats := report.Gateways[0]
	assert.Equal(t, flaky, stats.Gateway)
	assert.Equal(t, 2, stats.Probes)
	assert.Equal(t, 1, stats.Successes)
	assert.Equal(t, 0.5, stats.SuccessRate)
	assert.Greater(t, stats.AvgResponseTime, time.Duration(0))
}

func TestSampleCIDs(t *testing.T) {
	cids := make([]string, 100)
	for i := range cids {
		cids[i] = string(rune('a' + i%26))
	}
	sample := gatewayrisk.SampleCIDs(cids, 10)
	assert.Len(t, sample, 10)
	assert.Equal(t, cids[0], sample[0])

	// Small lists come back whole.
	short := []string{"QmA", "QmB"}
	assert.Equal(t, short, gatewayrisk.SampleCIDs(short, 10))
	assert.Equal(t, short, gatewayrisk.SampleCIDs(short, 0))
}
