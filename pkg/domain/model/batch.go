package model

import "time"

// BatchResult holds the outcomes of one conversion batch, in the order the
// files were submitted. It is the handle the presentation layer keeps to
// render tabs, per-file downloads, and the bulk archive.
type BatchResult struct {
	ID        string        // Assigned by the store when the batch is retained
	Outcomes  []Outcome     // One per input file, input order
	StartedAt time.Time     // Time the batch conversion started
	Elapsed   time.Duration // Wall-clock duration of the batch conversion
}

// SucceededCount returns the number of successful outcomes.
func (r *BatchResult) SucceededCount() int {
	n := 0
	for i := range r.Outcomes {
		if r.Outcomes[i].Succeeded {
			n++
		}
	}
	return n
}

// FailedCount returns the number of failed outcomes.
func (r *BatchResult) FailedCount() int {
	return len(r.Outcomes) - r.SucceededCount()
}
