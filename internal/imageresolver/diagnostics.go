package imageresolver

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DiagnosticEntry is one recorded resolution attempt.
type DiagnosticEntry struct {
	ID            string       `json:"id"`
	Timestamp     time.Time    `json:"timestamp"`
	EntityType    string       `json:"entity_type"`
	EntityID      string       `json:"entity_id"`
	ImageType     string       `json:"image_type"`
	RawValue      string       `json:"raw_value"`
	ResolvedValue string       `json:"resolved_value"`
	Status        SourceStatus `json:"status"`
}

// DiagnosticSummary is the derived count view for the overlay.
type DiagnosticSummary struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Empty    int `json:"empty"`
	Invalid  int `json:"invalid"`
}

// DiagnosticLog is a bounded, newest-first ring of resolution attempts backing
// the dev overlay. Recording on a disabled log is a no-op, so call sites never
// branch on the diagnostics flag. A nil *DiagnosticLog is safe to record to.
type DiagnosticLog struct {
	mu       sync.Mutex
	enabled  bool
	capacity int
	entries  []DiagnosticEntry
}

// NewDiagnosticLog creates a log holding at most capacity entries. Pass
// enabled=false to get the production no-op behavior.
func NewDiagnosticLog(enabled bool, capacity int) *DiagnosticLog {
	if capacity <= 0 {
		capacity = 100
	}
	return &DiagnosticLog{
		enabled:  enabled,
		capacity: capacity,
	}
}

// Enabled reports whether the log records anything.
func (d *DiagnosticLog) Enabled() bool {
	return d != nil && d.enabled
}

// Record prepends an entry, dropping the oldest past capacity. The entry's
// id and timestamp are filled in here.
func (d *DiagnosticLog) Record(entry DiagnosticEntry) {
	if !d.Enabled() {
		return
	}

	entry.ID = uuid.New().String()
	entry.Timestamp = time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries = append([]DiagnosticEntry{entry}, d.entries...)
	if len(d.entries) > d.capacity {
		d.entries = d.entries[:d.capacity]
	}
}

// Entries returns a newest-first copy of the recorded entries.
func (d *DiagnosticLog) Entries() []DiagnosticEntry {
	if !d.Enabled() {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]DiagnosticEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Summary derives the overlay counts from the current entries.
func (d *DiagnosticLog) Summary() DiagnosticSummary {
	if !d.Enabled() {
		return DiagnosticSummary{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	summary := DiagnosticSummary{Total: len(d.entries)}
	for i := range d.entries {
		switch {
		case d.entries[i].Status.Resolved():
			summary.Resolved++
		case d.entries[i].Status == StatusEmpty:
			summary.Empty++
		case d.entries[i].Status == StatusInvalid:
			summary.Invalid++
		}
	}
	return summary
}

// Clear drops all recorded entries.
func (d *DiagnosticLog) Clear() {
	if !d.Enabled() {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = nil
}
