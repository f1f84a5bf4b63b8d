package domain

import "time"

// Job identifies one of the two batch entry points.
type Job string

const (
	JobSync  Job = "sync"
	JobScore Job = "score"
)

// OutcomeKind classifies what happened to one record within a run.
type OutcomeKind string

const (
	OutcomeProcessed OutcomeKind = "processed"
	OutcomeSkipped   OutcomeKind = "skipped"
	OutcomeFailed    OutcomeKind = "failed"
)

// RecordOutcome is the per-record result of a batch pass. Err is nil for
// processed records.
type RecordOutcome struct {
	ID   string      `json:"id"`
	Kind OutcomeKind `json:"kind"`
	Err  error       `json:"-"`
}

// RunSummary aggregates one sync or score pass. Partial success is the
// expected shape: a failed record increments Failed without aborting the run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Job        Job       `json:"job"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Processed  int       `json:"processed"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// Total returns the number of records the run looked at.
func (s RunSummary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// Observe folds one record outcome into the summary counters.
func (s *RunSummary) Observe(o RecordOutcome) {
	switch o.Kind {
	case OutcomeProcessed:
		s.Processed++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}
