package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/util"
)

// CostPerDuplicatePin is a rough monthly storage cost per redundant
// pin, used to estimate cleanup savings.
const CostPerDuplicatePin = 0.08

// PinRecord is one entry from a pinning service's list endpoint.
// Several records may share a CID; that is the duplicate anomaly the
// cleanup phase exists for.
type PinRecord struct {
	CID       string    `json:"cid"`
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	CreatedAt time.Time `json:"created_at"`
}

// IsActive returns true if the remote status counts as pinned for
// verification purposes. Queued and in-flight pins still exist on the
// service and must not be re-pinned or reported missing.
func (record *PinRecord) IsActive() bool {
	return util.StringListContains(constants.ActivePinStatuses, record.Status)
}

// StatusRank returns the position of this record's status in the
// cleanup survivor priority order. Lower is better. Unknown statuses
// sort last.
func (record *PinRecord) StatusRank() int {
	for i, status := range constants.PinStatusPriority {
		if record.Status == status {
			return i
		}
	}
	return len(constants.PinStatusPriority)
}

// DuplicateReport summarizes CID multiplicity across a pin inventory
// scan. Details holds the instance list only for CIDs seen more than
// once.
type DuplicateReport struct {
	TotalPins       int                     `json:"total_pins"`
	UniqueCIDs      int                     `json:"unique_cids"`
	DuplicateCIDs   int                     `json:"duplicate_cids"`
	TotalDuplicates int                     `json:"total_duplicates"`
	Details         map[string][]*PinRecord `json:"details"`

	// Partial is true when the report came from a bounded or
	// early-exited scan. A partial report may be missing instances
	// and must not drive cleanup deletions.
	Partial bool `json:"partial"`
}

func NewDuplicateReport(partial bool) *DuplicateReport {
	return &DuplicateReport{
		Details: make(map[string][]*PinRecord),
		Partial: partial,
	}
}

// AddInstance records one pin instance for a CID seen more than once.
func (report *DuplicateReport) AddInstance(record *PinRecord) {
	report.Details[record.CID] = append(report.Details[record.CID], record)
}

// Finalize fills in the derived counters. TotalDuplicates is the
// number of deletable instances: one survivor per CID is free.
func (report *DuplicateReport) Finalize(totalPins, uniqueCIDs int) {
	report.TotalPins = totalPins
	report.UniqueCIDs = uniqueCIDs
	report.DuplicateCIDs = len(report.Details)
	report.TotalDuplicates = 0
	for _, instances := range report.Details {
		report.TotalDuplicates += len(instances) - 1
	}
}

func (report *DuplicateReport) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CleanupDetail tracks what happened to one duplicated CID during
// cleanup.
type CleanupDetail struct {
	CID      string       `json:"cid"`
	Kept     *PinRecord   `json:"kept"`
	Deleted  []*PinRecord `json:"deleted"`
	Failures []string     `json:"failures"`
}

// CleanupResult is the outcome of a duplicate cleanup run.
type CleanupResult struct {
	RunID           string           `json:"run_id"`
	DryRun          bool             `json:"dry_run"`
	KeptCount       int              `json:"kept_count"`
	DeletedCount    int              `json:"deleted_count"`
	FailedDeletions int              `json:"failed_deletions"`
	Details         []*CleanupDetail `json:"details"`

	// LostCIDs are CIDs that had no surviving active pin when
	// re-verified after cleanup. This list should always be empty.
	LostCIDs []string `json:"lost_cids"`
}

func NewCleanupResult(dryRun bool) *CleanupResult {
	return &CleanupResult{
		RunID:    uuid.New().String(),
		DryRun:   dryRun,
		Details:  make([]*CleanupDetail, 0),
		LostCIDs: make([]string, 0),
	}
}

// EstimatedMonthlySavings is the rough storage cost no longer paid
// for the deleted duplicate pins.
func (result *CleanupResult) EstimatedMonthlySavings() float64 {
	return float64(result.DeletedCount) * CostPerDuplicatePin
}
