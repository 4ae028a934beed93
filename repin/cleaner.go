package repin

import (
	"fmt"
	"sort"
	"time"

	"github.com/theonetwoone/CYBER-repinning/models/common"
	"github.com/theonetwoone/CYBER-repinning/models/service"
)

// Cleaner deletes redundant pin instances, keeping the healthiest one
// per CID. Deleting is the one operation in this system that can lose
// data, so the cleaner insists on a complete duplicate report and
// re-verifies every cleaned CID afterwards.
type Cleaner struct {
	Context *common.Context
	DryRun  bool
}

func NewCleaner(context *common.Context, dryRun bool) *Cleaner {
	return &Cleaner{
		Context: context,
		DryRun:  dryRun,
	}
}

// Run processes a full duplicate report. Partial reports are refused:
// deleting against an incomplete instance list is how a CID loses its
// only pin.
func (c *Cleaner) Run(report *service.DuplicateReport) (*service.CleanupResult, error) {
	if report.Partial {
		return nil, fmt.Errorf("refusing cleanup on a partial duplicate report; run a full scan first")
	}
	result := service.NewCleanupResult(c.DryRun)
	cids := make([]string, 0, len(report.Details))
	for cidStr := range report.Details {
		cids = append(cids, cidStr)
	}
	sort.Strings(cids)
	c.Context.Logger.Infof("Cleanup %s: %d duplicated CIDs, dry run = %t",
		result.RunID, len(cids), c.DryRun)
	for _, cidStr := range cids {
		c.cleanOne(cidStr, report.Details[cidStr], result)
	}
	if !c.DryRun {
		c.confirmSurvivors(cids, result)
	}
	c.Context.Logger.Infof("Cleanup %s done: kept %d, deleted %d, failed %d, lost %d",
		result.RunID, result.KeptCount, result.DeletedCount,
		result.FailedDeletions, len(result.LostCIDs))
	return result, nil
}

// cleanOne keeps the best instance of one CID and deletes the rest.
// Deletion failures are recorded and skipped, never fatal.
func (c *Cleaner) cleanOne(cidStr string, pins []*service.PinRecord, result *service.CleanupResult) {
	ordered := orderBySurvivorPriority(pins)
	detail := &service.CleanupDetail{
		CID:  cidStr,
		Kept: ordered[0],
	}
	result.KeptCount++
	for _, instance := range ordered[1:] {
		if c.DryRun {
			c.Context.Logger.Infof("[dry run] would delete pin %s of %s",
				instance.RequestID, cidStr)
			detail.Deleted = append(detail.Deleted, instance)
			result.DeletedCount++
			continue
		}
		resp := c.Context.PinClient.DeletePin(instance.RequestID)
		if resp.Error != nil {
			detail.Failures = append(detail.Failures,
				fmt.Sprintf("delete %s: %v", instance.RequestID, resp.Error))
			result.FailedDeletions++
		} else {
			detail.Deleted = append(detail.Deleted, instance)
			result.DeletedCount++
		}
		time.Sleep(c.Context.Config.PinDeleteDelay)
	}
	result.Details = append(result.Details, detail)
}

// orderBySurvivorPriority sorts pin instances best-first: healthiest
// status, then newest, then request id for determinism.
func orderBySurvivorPriority(pins []*service.PinRecord) []*service.PinRecord {
	ordered := make([]*service.PinRecord, len(pins))
	copy(ordered, pins)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].StatusRank() != ordered[j].StatusRank() {
			return ordered[i].StatusRank() < ordered[j].StatusRank()
		}
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].RequestID < ordered[j].RequestID
	})
	return ordered
}

// confirmSurvivors re-verifies the cleaned CIDs with the streaming
// scan. A CID with no surviving active pin is data loss and gets
// reported loudly.
func (c *Cleaner) confirmSurvivors(cids []string, result *service.CleanupResult) {
	verification, err := NewVerifier(c.Context).VerifyCIDs(cids)
	if err != nil {
		c.Context.Logger.Warningf("Post-cleanup verification failed: %v", err)
		return
	}
	for _, detail := range verification.Details {
		if !detail.Pinned {
			result.LostCIDs = append(result.LostCIDs, detail.CID)
			c.Context.Logger.Errorf("Pin lost after cleanup: %s has no surviving active pin",
				detail.CID)
		}
	}
}
