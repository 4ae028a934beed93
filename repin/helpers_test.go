package repin_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/theonetwoone/CYBER-repinning/models/common"
	"github.com/theonetwoone/CYBER-repinning/models/service"
	"github.com/theonetwoone/CYBER-repinning/network"
	"github.com/theonetwoone/CYBER-repinning/util/logger"
)

// fakePinService is an in-memory PinClient so pipeline tests can run
// against a controlled pin inventory instead of a live service.
type fakePinService struct {
	pageSize      int
	inventory     []*service.PinRecord
	pinCalls      []string
	deleteCalls   []string
	statusCalls   []string
	listCalls     int
	listOffsets   []int
	failPins      map[string]string
	failDeletes   map[string]string
	alreadyPinned map[string]bool
	credentialBad bool

	// rateLimit429s makes the next N ListPins calls answer HTTP 429.
	rateLimit429s int
}

func newFakePinService(pageSize int) *fakePinService {
	return &fakePinService{
		pageSize:      pageSize,
		failPins:      make(map[string]string),
		failDeletes:   make(map[string]string),
		alreadyPinned: make(map[string]bool),
	}
}

func (f *fakePinService) addPin(cidStr, status, requestID string, created time.Time) {
	f.inventory = append(f.inventory, &service.PinRecord{
		CID:       cidStr,
		Status:    status,
		RequestID: requestID,
		CreatedAt: created,
	})
}

func (f *fakePinService) Service() string {
	return "fake"
}

func (f *fakePinService) PageSize() int {
	return f.pageSize
}

func (f *fakePinService) ValidateCredential() *network.PinResponse {
	resp := network.NewPinResponse()
	if f.credentialBad {
		resp.Error = fmt.Errorf("invalid bearer token")
	}
	return resp
}

func (f *fakePinService) Pin(cidStr string) *network.PinResponse {
	f.pinCalls = append(f.pinCalls, cidStr)
	resp := network.NewPinResponse()
	if msg, ok := f.failPins[cidStr]; ok {
		resp.Error = fmt.Errorf("%s", msg)
		return resp
	}
	resp.AlreadyPinned = f.alreadyPinned[cidStr]
	resp.RequestID = "req-" + cidStr
	return resp
}

func (f *fakePinService) ListPins(limit, offset int) *network.PinResponse {
	f.listCalls++
	f.listOffsets = append(f.listOffsets, offset)
	resp := network.NewPinResponse()
	if f.rateLimit429s > 0 {
		f.rateLimit429s--
		resp.Response = &http.Response{StatusCode: http.StatusTooManyRequests}
		return resp
	}
	if offset > len(f.inventory) {
		offset = len(f.inventory)
	}
	end := offset + limit
	if end > len(f.inventory) {
		end = len(f.inventory)
	}
	resp.Records = f.inventory[offset:end]
	resp.Count = len(f.inventory)
	resp.Response = &http.Response{StatusCode: http.StatusOK}
	return resp
}

func (f *fakePinService) PinStatus(cidStr string) *network.PinResponse {
	f.statusCalls = append(f.statusCalls, cidStr)
	resp := network.NewPinResponse()
	for _, record := range f.inventory {
		if record.CID == cidStr {
			resp.Records = append(resp.Records, record)
		}
	}
	return resp
}

func (f *fakePinService) DeletePin(requestID string) *network.PinResponse {
	f.deleteCalls = append(f.deleteCalls, requestID)
	resp := network.NewPinResponse()
	if msg, ok := f.failDeletes[requestID]; ok {
		resp.Error = fmt.Errorf("%s", msg)
		return resp
	}
	remaining := make([]*service.PinRecord, 0, len(f.inventory))
	for _, record := range f.inventory {
		if record.RequestID != requestID {
			remaining = append(remaining, record)
		}
	}
	f.inventory = remaining
	return resp
}

func testContext(pinClient network.PinClient) *common.Context {
	return &common.Context{
		Config: &common.Config{
			FallbackLookups: 300,
			VerifyTimeLimit: time.Minute,
		},
		Logger:    logger.DiscardLogger(),
		PinClient: pinClient,
	}
}
