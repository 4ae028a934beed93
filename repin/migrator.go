package repin

import (
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/models/common"
	"github.com/theonetwoone/CYBER-repinning/models/service"
	"github.com/theonetwoone/CYBER-repinning/util"
)

// Migrator pins a collection's CIDs on the configured pinning service
// and reconciles per-asset statuses afterwards. Pinning and
// reconciliation are strictly two-phase: every pin attempt completes
// before any record status changes, so a mid-run failure never leaves
// partial credit behind.
type Migrator struct {
	Context  *common.Context
	Strategy string
}

// MigrationSummary aggregates one migration run.
type MigrationSummary struct {
	PendingAssets   int `json:"pending_assets"`
	MetadataCIDs    int `json:"metadata_cids"`
	ImageCIDs       int `json:"image_cids"`
	PinsAttempted   int `json:"pins_attempted"`
	PinsSucceeded   int `json:"pins_succeeded"`
	PinsFailed      int `json:"pins_failed"`
	AssetsCompleted int `json:"assets_completed"`
	AssetsFailed    int `json:"assets_failed"`
}

// pinOutcome remembers how one CID's pin attempt went.
type pinOutcome struct {
	succeeded bool
	detail    string
}

func NewMigrator(context *common.Context, strategy string) *Migrator {
	if strategy == "" {
		strategy = constants.StrategyAuto
	}
	return &Migrator{
		Context:  context,
		Strategy: strategy,
	}
}

// Run migrates every pending record. The credential gets validated
// with one cheap pin before any bulk work. Metadata CIDs are pinned
// first, then image CIDs per the strategy.
func (m *Migrator) Run(collection *service.Collection) (*MigrationSummary, error) {
	pending := collection.Pending()
	summary := &MigrationSummary{PendingAssets: len(pending)}
	if len(pending) == 0 {
		m.Context.Logger.Info("No pending assets to migrate")
		return summary, nil
	}
	resp := m.Context.PinClient.ValidateCredential()
	if resp.Error != nil {
		return nil, fmt.Errorf("credential validation failed for %s: %v",
			m.Context.PinClient.Service(), resp.Error)
	}

	metadataCIDs := metadataCIDsToPin(pending)
	imageCIDs := NewAnalyzer(m.Context).CIDsToPin(pending, m.Strategy)
	summary.MetadataCIDs = len(metadataCIDs)
	summary.ImageCIDs = len(imageCIDs)
	m.Context.Logger.Infof("Pinning %d metadata and %d image CIDs for %d pending assets on %s",
		len(metadataCIDs), len(imageCIDs), len(pending), m.Context.PinClient.Service())

	var bar *progressbar.ProgressBar
	if !util.TestsAreRunning() {
		bar = progressbar.Default(int64(len(metadataCIDs)+len(imageCIDs)), "pinning")
	}
	outcomes := make(map[string]*pinOutcome)
	m.pinAll(metadataCIDs, outcomes, summary, bar)
	m.pinAll(imageCIDs, outcomes, summary, bar)

	for _, record := range pending {
		m.reconcile(record, outcomes)
		switch record.Status {
		case constants.StatusCompleted:
			summary.AssetsCompleted++
		case constants.StatusFailed:
			summary.AssetsFailed++
		}
	}
	m.Context.Logger.Infof("Migration done: %d assets completed, %d failed",
		summary.AssetsCompleted, summary.AssetsFailed)
	return summary, nil
}

// metadataCIDsToPin collects the distinct metadata CIDs needing a pin
// of their own. A metadata CID equal to its record's image CID gets
// covered by the image pin.
func metadataCIDsToPin(records []*service.AssetRecord) []string {
	cids := make([]string, 0, len(records))
	for _, record := range records {
		if record.RequiresMetadataPin() {
			cids = append(cids, record.MetadataCID)
		}
	}
	return util.UniqueStrings(cids)
}

func (m *Migrator) pinAll(cids []string, outcomes map[string]*pinOutcome,
	summary *MigrationSummary, bar *progressbar.ProgressBar) {
	for _, cidStr := range cids {
		if bar != nil {
			bar.Add(1)
		}
		if outcome, ok := outcomes[cidStr]; ok && outcome.succeeded {
			continue
		}
		summary.PinsAttempted++
		resp := m.Context.PinClient.Pin(cidStr)
		if resp.Succeeded() {
			summary.PinsSucceeded++
			detail := "pinned"
			if resp.AlreadyPinned {
				detail = "already pinned"
			}
			outcomes[cidStr] = &pinOutcome{succeeded: true, detail: detail}
		} else {
			summary.PinsFailed++
			outcomes[cidStr] = &pinOutcome{detail: resp.Error.Error()}
			m.Context.Logger.Warningf("Pin failed for %s: %v", cidStr, resp.Error)
		}
	}
}

// reconcile moves one record out of pending based on the recorded pin
// outcomes. A panic during the update marks the record failed instead
// of leaving it pending forever.
func (m *Migrator) reconcile(record *service.AssetRecord, outcomes map[string]*pinOutcome) {
	defer func() {
		if r := recover(); r != nil {
			record.MarkFailed(fmt.Sprintf("Update error: %v", r))
		}
	}()
	imageOK, imageDetail := lookupOutcome(outcomes, record.ImageCID)
	metadataOK, metadataDetail := true, ""
	if record.RequiresMetadataPin() {
		metadataOK, metadataDetail = lookupOutcome(outcomes, record.MetadataCID)
	}
	if imageOK && metadataOK {
		record.MarkCompleted(successMessage(record))
		return
	}
	record.MarkFailed(failureMessage(imageOK, imageDetail, metadataOK, metadataDetail))
}

func lookupOutcome(outcomes map[string]*pinOutcome, cidStr string) (bool, string) {
	if cidStr == "" {
		return false, "no CID extracted"
	}
	outcome, ok := outcomes[cidStr]
	if !ok {
		return false, "CID was not in the pin set"
	}
	return outcome.succeeded, outcome.detail
}

func successMessage(record *service.AssetRecord) string {
	if record.ImageFilePath != "" {
		return fmt.Sprintf("Complete NFT pinned (directory %s, file %s)",
			util.ShortCID(record.ImageCID), record.ImageFilePath)
	}
	if record.RequiresMetadataPin() {
		return fmt.Sprintf("Complete NFT pinned (image %s, metadata %s)",
			util.ShortCID(record.ImageCID), util.ShortCID(record.MetadataCID))
	}
	return fmt.Sprintf("Complete NFT pinned (%s)", util.ShortCID(record.ImageCID))
}

func failureMessage(imageOK bool, imageDetail string, metadataOK bool, metadataDetail string) string {
	parts := make([]string, 0, 2)
	if !imageOK {
		parts = append(parts, "Image: "+imageDetail)
	}
	if !metadataOK {
		parts = append(parts, "Metadata: "+metadataDetail)
	}
	return strings.Join(parts, "; ")
}
