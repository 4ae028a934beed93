package repin

import (
	"fmt"

	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/models/common"
	"github.com/theonetwoone/CYBER-repinning/models/service"
	"github.com/theonetwoone/CYBER-repinning/util"
)

// Analyzer classifies how a collection's media sits on IPFS and
// derives the CID set a migration should actually pin. Directory
// collections share one base CID across many assets; pinning it once
// covers all of them.
type Analyzer struct {
	Context *common.Context
}

func NewAnalyzer(context *common.Context) *Analyzer {
	return &Analyzer{Context: context}
}

// Analyze classifies the records by the spread of their image CIDs.
// Let U be the distinct image CID count and T the record count:
// file paths present and U < T means directory_based, U == T means
// individual_cids, anything else is accidental duplication (mixed).
func (a *Analyzer) Analyze(records []*service.AssetRecord) *service.CollectionAnalysis {
	analysis := &service.CollectionAnalysis{
		Type:         constants.CollectionTypeNone,
		TotalAssets:  len(records),
		AssetsPerCID: make(map[string]int),
	}
	if len(records) == 0 {
		return analysis
	}
	hasFilePaths := false
	for _, record := range records {
		if record.ImageCID != "" {
			analysis.AssetsPerCID[record.ImageCID]++
		}
		if record.ImageFilePath != "" {
			hasFilePaths = true
		}
	}
	analysis.UniqueBaseCIDs = len(analysis.AssetsPerCID)
	for _, count := range analysis.AssetsPerCID {
		if count > analysis.LargestDirectory {
			analysis.LargestDirectory = count
		}
		if count > 1 {
			analysis.DuplicatedCIDs++
		}
	}
	switch {
	case hasFilePaths && analysis.UniqueBaseCIDs < analysis.TotalAssets:
		analysis.Type = constants.CollectionTypeDirectory
		analysis.AvgFilesPerDirectory =
			float64(analysis.TotalAssets) / float64(analysis.UniqueBaseCIDs)
	case analysis.UniqueBaseCIDs == analysis.TotalAssets:
		analysis.Type = constants.CollectionTypeIndividual
	default:
		analysis.Type = constants.CollectionTypeMixed
	}
	a.Context.Logger.Infof("Collection classified %s: %d assets over %d base CIDs",
		analysis.Type, analysis.TotalAssets, analysis.UniqueBaseCIDs)
	return analysis
}

// defaultSizeSample bounds the gateway HEAD requests an estimate costs.
const defaultSizeSample = 5

// EstimateStorageBytes estimates the collection's total storage by
// probing an evenly spaced sample of its distinct image CIDs for
// content length and scaling the average across the full set. Gateways
// that cannot report a size for a sampled CID are skipped; the
// estimate fails only when no sampled CID yields one.
func (a *Analyzer) EstimateStorageBytes(records []*service.AssetRecord, sampleSize int) (int64, error) {
	unique := a.CIDsToPin(records, constants.StrategyUniqueOnly)
	if len(unique) == 0 {
		return 0, fmt.Errorf("collection has no CIDs to sample")
	}
	if sampleSize <= 0 {
		sampleSize = defaultSizeSample
	}
	sample := unique
	if len(unique) > sampleSize {
		step := float64(len(unique)) / float64(sampleSize)
		sample = make([]string, 0, sampleSize)
		for i := 0; i < sampleSize; i++ {
			sample = append(sample, unique[int(float64(i)*step)])
		}
	}
	var total int64
	sampled := 0
	for _, cidStr := range sample {
		size, err := a.Context.GatewayClient.CIDSize(cidStr)
		if err != nil {
			a.Context.Logger.Warningf("Size probe failed for %s: %v", cidStr, err)
			continue
		}
		total += size
		sampled++
	}
	if sampled == 0 {
		return 0, fmt.Errorf("no gateway reported a size for any of %d sampled CIDs", len(sample))
	}
	return (total / int64(sampled)) * int64(len(unique)), nil
}

// CIDsToPin derives the image CID list to pin for these records under
// the chosen strategy. The individual strategies keep one entry per
// record; everything else reduces to the distinct set, since pinning
// the same CID twice buys no extra redundancy, only cost.
func (a *Analyzer) CIDsToPin(records []*service.AssetRecord, strategy string) []string {
	all := make([]string, 0, len(records))
	for _, record := range records {
		if record.ImageCID != "" {
			all = append(all, record.ImageCID)
		}
	}
	switch strategy {
	case constants.StrategyIndividualFiles, constants.StrategyAllIndividual:
		return all
	default:
		return util.UniqueStrings(all)
	}
}
