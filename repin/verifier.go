package repin

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/models/common"
	"github.com/theonetwoone/CYBER-repinning/models/service"
	"github.com/theonetwoone/CYBER-repinning/util"
)

const (
	rateLimitWait       = 10 * time.Second
	maxRateLimitRetries = 3
)

// Verifier checks a collection's CIDs against the pinning service's
// inventory. The remote inventory can be orders of magnitude larger
// than the collection and most services cannot filter list calls by
// CID, so the scan streams page by page and never holds more than a
// target-sized accumulator in memory.
type Verifier struct {
	Context *common.Context

	// RateLimitWait is how long to back off after an HTTP 429 before
	// retrying the same page.
	RateLimitWait time.Duration
}

// VerificationDetail is the outcome for one target CID.
type VerificationDetail struct {
	CID    string `json:"cid"`
	Found  bool   `json:"found"`
	Pinned bool   `json:"pinned"`
	Status string `json:"status"`

	// Occurrences counts how many pin instances the scan saw for this
	// CID. More than one means a duplicate.
	Occurrences int `json:"occurrences"`
}

// VerificationResult is the outcome of one verification run.
type VerificationResult struct {
	RunID         string                `json:"run_id"`
	TotalTargets  int                   `json:"total_targets"`
	VerifiedCount int                   `json:"verified_count"`
	PagesScanned  int                   `json:"pages_scanned"`
	FallbacksUsed int                   `json:"fallbacks_used"`
	Details       []*VerificationDetail `json:"details"`

	// DuplicateReport from a bounded scan is always partial. Cleanup
	// needs a full scan instead.
	DuplicateReport *service.DuplicateReport `json:"duplicate_report"`

	// AssetsCompleted and AssetsReverted count status changes made by
	// the post-verification reconciliation.
	AssetsCompleted int `json:"assets_completed"`
	AssetsReverted  int `json:"assets_reverted"`
}

func NewVerifier(context *common.Context) *Verifier {
	return &Verifier{
		Context:       context,
		RateLimitWait: rateLimitWait,
	}
}

// Run verifies every CID the collection references and reconciles
// record statuses against what the pinning service actually holds.
func (v *Verifier) Run(collection *service.Collection) (*VerificationResult, error) {
	targets := CollectTargetCIDs(collection)
	result, err := v.VerifyCIDs(targets)
	if err != nil {
		return nil, err
	}
	v.reconcile(collection, result)
	return result, nil
}

// CollectTargetCIDs gathers the distinct CIDs a collection needs
// pinned: image, metadata and any previously confirmed repin CIDs.
func CollectTargetCIDs(collection *service.Collection) []string {
	cids := make([]string, 0, collection.Size()*2)
	for _, record := range collection.Records {
		if record.ImageCID != "" {
			cids = append(cids, record.ImageCID)
		}
		if record.MetadataCID != "" {
			cids = append(cids, record.MetadataCID)
		}
		if record.RepinCID != "" {
			cids = append(cids, record.RepinCID)
		}
	}
	return util.UniqueStrings(cids)
}

// VerifyCIDs runs the bounded streaming scan for the given targets.
// The scan stops at the first of: all targets found, end of inventory,
// the page cap, or the wall-clock budget. Leftover CIDs get a bounded
// number of individual lookups. Budget exhaustion downgrades the
// result, it is not an error.
func (v *Verifier) VerifyCIDs(targets []string) (*VerificationResult, error) {
	// User-supplied CID lists can repeat entries; the early exit
	// compares found count against target count, so dedupe first.
	targets = util.UniqueStrings(targets)
	result := &VerificationResult{
		RunID:        uuid.New().String(),
		TotalTargets: len(targets),
		Details:      make([]*VerificationDetail, 0, len(targets)),
	}
	if len(targets) == 0 {
		result.DuplicateReport = service.NewDuplicateReport(true)
		return result, nil
	}
	targetSet := make(map[string]bool, len(targets))
	for _, cidStr := range targets {
		targetSet[cidStr] = true
	}

	// Per matched CID: first-seen status, occurrence count and the
	// instances themselves. All three are bounded by the target set.
	statuses := make(map[string]string, len(targets))
	occurrences := make(map[string]int, len(targets))
	instances := make(map[string][]*service.PinRecord, len(targets))

	pageSize := v.Context.PinClient.PageSize()
	maxPages := pageCap(len(targets))
	deadline := time.Now().Add(v.Context.Config.VerifyTimeLimit)
	offset := 0
	retries := 0

	for result.PagesScanned < maxPages {
		resp := v.Context.PinClient.ListPins(pageSize, offset)
		if resp.RateLimited() {
			retries++
			if retries > maxRateLimitRetries {
				v.Context.Logger.Warning("Rate limited too many times, stopping scan early")
				break
			}
			v.Context.Logger.Warningf("Rate limited, waiting %s before retrying page at offset %d",
				v.RateLimitWait, offset)
			time.Sleep(v.RateLimitWait)
			continue
		}
		if resp.Error != nil {
			v.Context.Logger.Warningf("Pin listing failed at offset %d: %v", offset, resp.Error)
			break
		}
		retries = 0
		result.PagesScanned++
		for _, record := range resp.Records {
			if !targetSet[record.CID] {
				continue
			}
			occurrences[record.CID]++
			if _, seen := statuses[record.CID]; !seen {
				statuses[record.CID] = record.Status
			}
			instances[record.CID] = append(instances[record.CID], record)
		}
		if len(statuses) == len(targets) {
			v.Context.Logger.Infof("All %d target CIDs found after %d pages",
				len(targets), result.PagesScanned)
			break
		}
		if len(resp.Records) < pageSize {
			break
		}
		if time.Now().After(deadline) {
			v.Context.Logger.Warningf("Verification time budget exceeded after %d pages",
				result.PagesScanned)
			break
		}
		offset += pageSize
		time.Sleep(v.Context.Config.PinPageDelay)
	}

	v.fallbackLookups(targets, statuses, occurrences, result)

	report := service.NewDuplicateReport(true)
	totalMatched := 0
	for _, cidStr := range targets {
		status, found := statuses[cidStr]
		detail := &VerificationDetail{
			CID:         cidStr,
			Found:       found,
			Status:      status,
			Occurrences: occurrences[cidStr],
		}
		if found && util.StringListContains(constants.ActivePinStatuses, status) {
			detail.Pinned = true
			result.VerifiedCount++
		}
		result.Details = append(result.Details, detail)
		totalMatched += occurrences[cidStr]
		if occurrences[cidStr] > 1 {
			report.Details[cidStr] = instances[cidStr]
		}
	}
	report.Finalize(totalMatched, len(statuses))
	result.DuplicateReport = report
	v.Context.Logger.Infof("Verification %s: %d of %d CIDs pinned (%d pages, %d fallbacks)",
		result.RunID, result.VerifiedCount, result.TotalTargets,
		result.PagesScanned, result.FallbacksUsed)
	return result, nil
}

// fallbackLookups resolves CIDs the paged scan missed with individual
// status calls. The budget keeps a huge unpinned collection from
// turning into thousands of extra requests.
func (v *Verifier) fallbackLookups(targets []string, statuses map[string]string,
	occurrences map[string]int, result *VerificationResult) {
	budget := v.Context.Config.FallbackLookups
	for _, cidStr := range targets {
		if _, seen := statuses[cidStr]; seen {
			continue
		}
		if result.FallbacksUsed >= budget {
			v.Context.Logger.Warningf("Fallback lookup budget (%d) exhausted", budget)
			break
		}
		result.FallbacksUsed++
		resp := v.Context.PinClient.PinStatus(cidStr)
		if resp.Error != nil {
			continue
		}
		record := resp.FirstRecord()
		if record == nil {
			continue
		}
		statuses[cidStr] = record.Status
		occurrences[cidStr]++
	}
}

// reconcile updates record statuses from the verification outcome.
// Fully pinned assets are confirmed completed; anything else goes back
// to pending so the next migration retries it, losing any stale repin
// CID it carried.
func (v *Verifier) reconcile(collection *service.Collection, result *VerificationResult) {
	pinned := make(map[string]bool, len(result.Details))
	for _, detail := range result.Details {
		pinned[detail.CID] = detail.Pinned
	}
	for _, record := range collection.Records {
		imagePinned := record.ImageCID == "" || pinned[record.ImageCID]
		metadataPinned := !record.RequiresMetadataPin() || pinned[record.MetadataCID]
		if imagePinned && metadataPinned {
			if record.Status != constants.StatusCompleted {
				record.MarkCompleted("Verified as pinned")
			}
			result.AssetsCompleted++
			continue
		}
		if record.Status == constants.StatusCompleted {
			result.AssetsReverted++
		}
		record.Status = constants.StatusPending
		record.RepinCID = ""
		record.ErrorMessage = verificationFailureMessage(record, pinned)
	}
}

func verificationFailureMessage(record *service.AssetRecord, pinned map[string]bool) string {
	missing := make([]string, 0, 2)
	if record.ImageCID != "" && !pinned[record.ImageCID] {
		missing = append(missing, "image "+util.ShortCID(record.ImageCID))
	}
	if record.RequiresMetadataPin() && !pinned[record.MetadataCID] {
		missing = append(missing, "metadata "+util.ShortCID(record.MetadataCID))
	}
	return fmt.Sprintf("Pin verification failed: %s not pinned", strings.Join(missing, ", "))
}

// pageCap scales the page budget with the target-set size. Small
// collections finish in a handful of pages; big ones get more room
// but never an unbounded walk.
func pageCap(targetCount int) int {
	switch {
	case targetCount <= 500:
		return 50
	case targetCount <= 1000:
		return 100
	case targetCount <= 2500:
		return 250
	default:
		return 500
	}
}

// FullScan walks the entire remote pin inventory and builds the
// complete duplicate report cleanup requires. Expensive on purpose.
// Run it only when the user asks for cleanup.
func (v *Verifier) FullScan() (*service.DuplicateReport, error) {
	pageSize := v.Context.PinClient.PageSize()
	instances := make(map[string][]*service.PinRecord)
	totalPins := 0
	offset := 0
	retries := 0
	for {
		resp := v.Context.PinClient.ListPins(pageSize, offset)
		if resp.RateLimited() {
			retries++
			if retries > maxRateLimitRetries {
				return nil, fmt.Errorf("rate limited %d times in a row during full scan", retries)
			}
			time.Sleep(v.RateLimitWait)
			continue
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		retries = 0
		totalPins += len(resp.Records)
		for _, record := range resp.Records {
			instances[record.CID] = append(instances[record.CID], record)
		}
		if len(resp.Records) < pageSize {
			break
		}
		offset += pageSize
		time.Sleep(v.Context.Config.PinPageDelay)
	}
	report := service.NewDuplicateReport(false)
	for cidStr, list := range instances {
		if len(list) > 1 {
			report.Details[cidStr] = list
		}
	}
	report.Finalize(totalPins, len(instances))
	v.Context.Logger.Infof("Full scan: %d pins, %d unique CIDs, %d duplicated",
		totalPins, len(instances), report.DuplicateCIDs)
	return report, nil
}
