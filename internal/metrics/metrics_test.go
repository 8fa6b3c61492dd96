package metrics

import (
	"sync"
	"testing"
)

func TestCounters(t *testing.T) {
	tests := []struct {
		name string
		inc  func()
		get  func(Metrics) uint64
	}{
		{"TurnReceived", TurnReceived, func(m Metrics) uint64 { return m.TurnsReceived }},
		{"SlotElicited", SlotElicited, func(m Metrics) uint64 { return m.SlotsElicited }},
		{"ConfirmationRequested", ConfirmationRequested, func(m Metrics) uint64 { return m.ConfirmationsRequested }},
		{"StarDeclined", StarDeclined, func(m Metrics) uint64 { return m.StarsDeclined }},
		{"StarSucceeded", StarSucceeded, func(m Metrics) uint64 { return m.StarsSucceeded }},
		{"StarFailed", StarFailed, func(m Metrics) uint64 { return m.StarsFailed }},
		{"StarDeduplicated", StarDeduplicated, func(m Metrics) uint64 { return m.StarsDeduplicated }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()

			tt.inc()

			if got := tt.get(Get()); got != 1 {
				t.Errorf("expected %s=1, got %d", tt.name, got)
			}
		})
	}
}

func TestReset(t *testing.T) {
	TurnReceived()
	SlotElicited()
	ConfirmationRequested()
	StarDeclined()
	StarSucceeded()
	StarFailed()
	StarDeduplicated()

	Reset()

	if m := Get(); m != (Metrics{}) {
		t.Errorf("expected all counters zero after reset, got %+v", m)
	}
}

func TestConcurrentIncrements(t *testing.T) {
	Reset()

	var wg sync.WaitGroup
	iterations := 1000

	for i := 0; i < iterations; i++ {
		wg.Add(3)
		go func() {
			TurnReceived()
			wg.Done()
		}()
		go func() {
			StarSucceeded()
			wg.Done()
		}()
		go func() {
			StarFailed()
			wg.Done()
		}()
	}

	wg.Wait()
	m := Get()

	if m.TurnsReceived != uint64(iterations) {
		t.Errorf("expected TurnsReceived=%d, got %d", iterations, m.TurnsReceived)
	}
	if m.StarsSucceeded != uint64(iterations) {
		t.Errorf("expected StarsSucceeded=%d, got %d", iterations, m.StarsSucceeded)
	}
	if m.StarsFailed != uint64(iterations) {
		t.Errorf("expected StarsFailed=%d, got %d", iterations, m.StarsFailed)
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	Reset()

	StarSucceeded()
	snapshot := Get()

	// Increment again after snapshot
	StarSucceeded()

	if snapshot.StarsSucceeded != 1 {
		t.Errorf("snapshot should be immutable, expected 1, got %d", snapshot.StarsSucceeded)
	}

	current := Get()
	if current.StarsSucceeded != 2 {
		t.Errorf("current should be 2, got %d", current.StarsSucceeded)
	}
}
