package metrics

import (
	"sync/atomic"
)

// Metrics tracks operational metrics.
type Metrics struct {
	TurnsReceived          uint64 `json:"turns_received"`
	SlotsElicited          uint64 `json:"slots_elicited"`
	ConfirmationsRequested uint64 `json:"confirmations_requested"`
	StarsDeclined          uint64 `json:"stars_declined"`
	StarsSucceeded         uint64 `json:"stars_succeeded"`
	StarsFailed            uint64 `json:"stars_failed"`
	StarsDeduplicated      uint64 `json:"stars_deduplicated"`
}

var global = &Metrics{}

// TurnReceived increments the count of code hook invocations.
func TurnReceived() { atomic.AddUint64(&global.TurnsReceived, 1) }

// SlotElicited increments the count of slot prompts sent.
func SlotElicited() { atomic.AddUint64(&global.SlotsElicited, 1) }

// ConfirmationRequested increments the count of confirmation prompts sent.
func ConfirmationRequested() { atomic.AddUint64(&global.ConfirmationsRequested, 1) }

// StarDeclined increments the count of stars the user declined.
func StarDeclined() { atomic.AddUint64(&global.StarsDeclined, 1) }

// StarSucceeded increments the count of successful stars.
func StarSucceeded() { atomic.AddUint64(&global.StarsSucceeded, 1) }

// StarFailed increments the count of failed star attempts.
func StarFailed() { atomic.AddUint64(&global.StarsFailed, 1) }

// StarDeduplicated increments the count of repeated turns answered without
// calling the provider.
func StarDeduplicated() { atomic.AddUint64(&global.StarsDeduplicated, 1) }

// Get returns a snapshot of the current metrics.
func Get() Metrics {
	return Metrics{
		TurnsReceived:          atomic.LoadUint64(&global.TurnsReceived),
		SlotsElicited:          atomic.LoadUint64(&global.SlotsElicited),
		ConfirmationsRequested: atomic.LoadUint64(&global.ConfirmationsRequested),
		StarsDeclined:          atomic.LoadUint64(&global.StarsDeclined),
		StarsSucceeded:         atomic.LoadUint64(&global.StarsSucceeded),
		StarsFailed:            atomic.LoadUint64(&global.StarsFailed),
		StarsDeduplicated:      atomic.LoadUint64(&global.StarsDeduplicated),
	}
}

// Reset resets all metrics to zero (useful for testing).
func Reset() {
	atomic.StoreUint64(&global.TurnsReceived, 0)
	atomic.StoreUint64(&global.SlotsElicited, 0)
	atomic.StoreUint64(&global.ConfirmationsRequested, 0)
	atomic.StoreUint64(&global.StarsDeclined, 0)
	atomic.StoreUint64(&global.StarsSucceeded, 0)
	atomic.StoreUint64(&global.StarsFailed, 0)
	atomic.StoreUint64(&global.StarsDeduplicated, 0)
}
