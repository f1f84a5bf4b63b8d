package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Status is the workflow state of a leak report. Transitions beyond the
// 'reported' default are driven by an external inspection workflow.
type Status string

const (
	StatusReported        Status = "reported"
	StatusUnderInspection Status = "under_inspection"
	StatusRepaired        Status = "repaired"
)

// ActiveStatuses are the states eligible for priority scoring.
func ActiveStatuses() []Status {
	return []Status{StatusReported, StatusUnderInspection}
}

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// TagMap holds the derived classification tags, persisted as JSONB.
type TagMap map[string]string

func (t TagMap) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

func (t *TagMap) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported type for tag map: %T", src)
	}
}

// LeakReport is the canonical record of one water-leak incident, keyed by the
// external submission id.
type LeakReport struct {
	ID            string    `json:"id" db:"id"`
	SubmittedAt   time.Time `json:"submitted_at" db:"submitted_at"`
	Location      *Point    `json:"location,omitempty"`
	Category      *string   `json:"category,omitempty" db:"category"`
	Severity      *string   `json:"severity,omitempty" db:"severity"`
	SourceType    *string   `json:"source_type,omitempty" db:"source_type"`
	Description   *string   `json:"description,omitempty" db:"description"`
	PhotoURL      *string   `json:"photo_url,omitempty" db:"photo_url"`
	PriorityScore int       `json:"priority_score" db:"priority_score"`
	Status        Status    `json:"status" db:"status"`
	Tags          TagMap    `json:"tags,omitempty" db:"tags"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// EligibleReport is the projection the scorer works on: identity, submission
// time and an optional location.
type EligibleReport struct {
	ID          string    `json:"id" db:"id"`
	SubmittedAt time.Time `json:"submitted_at" db:"submitted_at"`
	Status      Status    `json:"status" db:"status"`
	Location    *Point    `json:"location,omitempty"`
}
