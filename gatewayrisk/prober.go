package gatewayrisk

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/models/common"
	"github.com/theonetwoone/CYBER-repinning/network"
	"github.com/theonetwoone/CYBER-repinning/util"
)

const defaultWorkers = 5

// WellKnownCIDs are long-lived, widely replicated IPFS files. Probing
// them measures gateway health independent of any collection.
var WellKnownCIDs = []string{
	constants.TestPinCID,
	"QmQPeNsJPyVWPFDVHb77w8G42Fvo15z4bG2X8D2GhfbSXc",
	"QmPZ9gcCEpqKTo6aq61g2nXGUhM4iCL3ewB6LDXZCtioEB",
}

// Prober checks where a set of CIDs is actually reachable and how much
// of that reachability rests on gateways that are going away. Probes
// run on a bounded worker pool since the (CID, gateway) pairs are
// independent.
type Prober struct {
	Context      *common.Context
	Gateways     []string
	ShuttingDown []string
	Workers      int
}

// CIDRisk is the availability verdict for one CID.
type CIDRisk struct {
	CID string `json:"cid"`

	// Risk is one of the constants.Risk values.
	Risk string `json:"risk"`

	// Available lists the gateways that served the CID.
	Available []string `json:"available"`
}

// GatewayStats aggregates probe outcomes per gateway.
type GatewayStats struct {
	Gateway         string        `json:"gateway"`
	Probes          int           `json:"probes"`
	Successes       int           `json:"successes"`
	SuccessRate     float64       `json:"success_rate"`
	AvgResponseTime time.Duration `json:"avg_response_time"`
}

// Report is the outcome of one probing run.
type Report struct {
	RunID      string          `json:"run_id"`
	Results    []*CIDRisk      `json:"results"`
	Gateways   []*GatewayStats `json:"gateways"`
	RiskCounts map[string]int  `json:"risk_counts"`
}

func NewProber(context *common.Context) *Prober {
	return &Prober{
		Context:      context,
		Gateways:     constants.RiskProbeGateways,
		ShuttingDown: constants.ShuttingDownGateways,
		Workers:      defaultWorkers,
	}
}

// Run probes every (CID, gateway) pair and classifies each CID's risk
// of disappearing from the public IPFS network.
func (p *Prober) Run(cids []string) *Report {
	type probeJob struct {
		cidStr  string
		gateway string
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan probeJob)
	results := make(chan *network.ProbeResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- p.Context.GatewayClient.Head(job.gateway, job.cidStr)
			}
		}()
	}
	go func() {
		for _, cidStr := range cids {
			for _, gateway := range p.Gateways {
				jobs <- probeJob{cidStr: cidStr, gateway: gateway}
			}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	availability := make(map[string][]string, len(cids))
	statsByGateway := make(map[string]*GatewayStats, len(p.Gateways))
	totalTime := make(map[string]time.Duration, len(p.Gateways))
	for result := range results {
		stats := statsByGateway[result.Gateway]
		if stats == nil {
			stats = &GatewayStats{Gateway: result.Gateway}
			statsByGateway[result.Gateway] = stats
		}
		stats.Probes++
		totalTime[result.Gateway] += result.ResponseTime
		if result.Available {
			stats.Successes++
			availability[result.CID] = append(availability[result.CID], result.Gateway)
		}
	}

	report := &Report{
		RunID:      uuid.New().String(),
		Results:    make([]*CIDRisk, 0, len(cids)),
		Gateways:   make([]*GatewayStats, 0, len(p.Gateways)),
		RiskCounts: make(map[string]int),
	}
	for _, cidStr := range cids {
		risk := &CIDRisk{
			CID:       cidStr,
			Available: availability[cidStr],
			Risk:      p.classify(availability[cidStr]),
		}
		report.Results = append(report.Results, risk)
		report.RiskCounts[risk.Risk]++
	}
	for _, gateway := range p.Gateways {
		stats := statsByGateway[gateway]
		if stats == nil {
			continue
		}
		stats.SuccessRate = float64(stats.Successes) / float64(stats.Probes)
		stats.AvgResponseTime = totalTime[gateway] / time.Duration(stats.Probes)
		report.Gateways = append(report.Gateways, stats)
	}
	p.Context.Logger.Infof("Risk probe %s: %d CIDs across %d gateways, %d unreachable",
		report.RunID, len(cids), len(p.Gateways), report.RiskCounts[constants.RiskUnreachable])
	return report
}

// classify turns the list of serving gateways into a risk class. A
// CID held only by shutting-down gateways is one shutdown away from
// being gone.
func (p *Prober) classify(available []string) string {
	if len(available) == 0 {
		return constants.RiskUnreachable
	}
	stable := 0
	for _, gateway := range available {
		if !util.StringListContains(p.ShuttingDown, gateway) {
			stable++
		}
	}
	if stable == 0 {
		return constants.RiskHigh
	}
	if stable <= 2 {
		return constants.RiskMedium
	}
	return constants.RiskLow
}

// SampleCIDs picks up to max CIDs spread evenly across the list, so a
// huge collection gets probed through representative members instead
// of every asset.
func SampleCIDs(cids []string, max int) []string {
	if max <= 0 || len(cids) <= max {
		return cids
	}
	step := float64(len(cids)) / float64(max)
	sample := make([]string, 0, max)
	for i := 0; i < max; i++ {
		sample = append(sample, cids[int(float64(i)*step)])
	}
	return sample
}
