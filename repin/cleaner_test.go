package repin_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/repin"
)

const dupCID = "QmDup111111111111111111111"

func duplicatedInventory(fake *fakePinService) {
	now := time.Now()
	fake.addPin(dupCID, constants.PinStatusFailed, "req-failed", now.Add(-2*time.Hour))
	fake.addPin(dupCID, constants.PinStatusPinned, "req-pinned", now.Add(-1*time.Hour))
	fake.addPin(dupCID, constants.PinStatusQueued, "req-queued", now)
}

// The pinned instance survives; queued and failed duplicates go, and
// the post-cleanup re-verification confirms nothing was lost.
func TestCleanupSurvivorSelection(t *testing.T) {
	fake := newFakePinService(10)
	duplicatedInventory(fake)

	context := testContext(fake)
	report, err := repin.NewVerifier(context).FullScan()
	require.Nil(t, err)

	result, err := repin.NewCleaner(context, false).Run(report)
	require.Nil(t, err)

	assert.Equal(t, 1, result.KeptCount)
	assert.Equal(t, 2, result.DeletedCount)
	assert.Equal(t, 0, result.FailedDeletions)
	assert.ElementsMatch(t, []string{"req-failed", "req-queued"}, fake.deleteCalls)
	assert.Empty(t, result.LostCIDs)
	assert.NotEmpty(t, result.RunID)

	require.Len(t, result.Details, 1)
	assert.Equal(t, "req-pinned", result.Details[0].Kept.RequestID)

	// The surviving pin is still on the service.
	require.Len(t, fake.inventory, 1)
	assert.Equal(t, "req-pinned", fake.inventory[0].RequestID)

	assert.InDelta(t, 0.16, result.EstimatedMonthlySavings(), 0.001)
}

// Equal statuses tie-break on the newest creation time.
func TestCleanupTieBreakNewest(t *testing.T) {
	fake := newFakePinService(10)
	now := time.Now()
	fake.addPin(dupCID, constants.PinStatusPinned, "req-old", now.Add(-time.Hour))
	fake.addPin(dupCID, constants.PinStatusPinned, "req-new", now)

	context := testContext(fake)
	report, err := repin.NewVerifier(context).FullScan()
	require.Nil(t, err)

	result, err := repin.NewCleaner(context, false).Run(report)
	require.Nil(t, err)
	assert.Equal(t, "req-new", result.Details[0].Kept.RequestID)
	assert.Equal(t, []string{"req-old"}, fake.deleteCalls)
}

// Dry run reports what would happen without touching the service.
func TestCleanupDryRun(t *testing.T) {
	fake := newFakePinService(10)
	duplicatedInventory(fake)

	context := testContext(fake)
	report, err := repin.NewVerifier(context).FullScan()
	require.Nil(t, err)

	result, err := repin.NewCleaner(context, true).Run(report)
	require.Nil(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 2, result.DeletedCount)
	assert.Empty(t, fake.deleteCalls)
	assert.Len(t, fake.inventory, 3)
}

// One failed deletion does not stop the rest of the cleanup.
func TestCleanupDeleteFailureIsNonFatal(t *testing.T) {
	fake := newFakePinService(10)
	duplicatedInventory(fake)
	fake.failDeletes["req-queued"] = "deletion not allowed"

	context := testContext(fake)
	report, err := repin.NewVerifier(context).FullScan()
	require.Nil(t, err)

	result, err := repin.NewCleaner(context, false).Run(report)
	require.Nil(t, err)
	assert.Equal(t, 1, result.DeletedCount)
	assert.Equal(t, 1, result.FailedDeletions)
	require.Len(t, result.Details, 1)
	require.Len(t, result.Details[0].Failures, 1)
	assert.Contains(t, result.Details[0].Failures[0], "deletion not allowed")

	// req-failed still went away even though req-queued could not.
	assert.Contains(t, fake.deleteCalls, "req-failed")
}
