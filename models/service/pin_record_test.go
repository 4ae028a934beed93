package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/models/service"
)

func TestPinRecordIsActive(t *testing.T) {
	record := &service.PinRecord{CID: "QmQ", Status: constants.PinStatusPinned}
	assert.True(t, record.IsActive())
	record.Status = constants.PinStatusQueued
	assert.True(t, record.IsActive())
	record.Status = constants.PinStatusFailed
	assert.False(t, record.IsActive())
	record.Status = "whatever"
	assert.False(t, record.IsActive())
}

func TestPinRecordStatusRank(t *testing.T) {
	pinned := &service.PinRecord{Status: constants.PinStatusPinned}
	queued := &service.PinRecord{Status: constants.PinStatusQueued}
	failed := &service.PinRecord{Status: constants.PinStatusFailed}
	unknown := &service.PinRecord{Status: "mystery"}
	assert.Less(t, pinned.StatusRank(), queued.StatusRank())
	assert.Less(t, queued.StatusRank(), failed.StatusRank())
	assert.Less(t, failed.StatusRank(), unknown.StatusRank())
}

func TestDuplicateReportFinalize(t *testing.T) {
	report := service.NewDuplicateReport(false)
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		report.AddInstance(&service.PinRecord{
			CID:       "QmDup",
			Status:    constants.PinStatusPinned,
			RequestID: string(rune('a' + i)),
			CreatedAt: now,
		})
	}
	report.AddInstance(&service.PinRecord{CID: "QmDup2", Status: constants.PinStatusQueued})
	report.AddInstance(&service.PinRecord{CID: "QmDup2", Status: constants.PinStatusPinned})
	report.Finalize(100, 97)

	assert.Equal(t, 100, report.TotalPins)
	assert.Equal(t, 97, report.UniqueCIDs)
	assert.Equal(t, 2, report.DuplicateCIDs)

	// One survivor per CID is free: (3-1) + (2-1)
	assert.Equal(t, 3, report.TotalDuplicates)
	assert.False(t, report.Partial)
}

func TestCleanupResultSavings(t *testing.T) {
	result := service.NewCleanupResult(true)
	result.DeletedCount = 25
	assert.InDelta(t, 2.0, result.EstimatedMonthlySavings(), 0.0001)
	require.True(t, result.DryRun)
	assert.Empty(t, result.LostCIDs)
}
