package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leak-priority-service/internal/config"
	"github.com/leak-priority-service/internal/domain"
	apperrors "github.com/leak-priority-service/internal/pkg/errors"
	"github.com/leak-priority-service/internal/pkg/utils"
	"go.uber.org/zap"
)

// submissionTimeLayouts cover the timestamp shapes the Kobo data API emits.
var submissionTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Normalizer maps one raw submission into a canonical leak report.
type Normalizer struct {
	attachmentBase string
	logger         *zap.Logger
}

// NewNormalizer derives the photo attachment base from the source API URL:
// everything before its /data/ segment, as the source serves attachments
// relative to the form root rather than the data endpoint.
func NewNormalizer(cfg *config.SourceConfig, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		attachmentBase: strings.Split(cfg.APIURL, "/data/")[0],
		logger:         logger,
	}
}

// Normalize builds a canonical report from raw. A missing id or submission
// time fails the record (RECORD_MAPPING_DEFECT); a malformed coordinate
// string only leaves the location absent.
func (n *Normalizer) Normalize(raw domain.RawSubmission) (*domain.LeakReport, error) {
	id := submissionID(raw)
	if id == "" {
		return nil, apperrors.ErrRecordMappingDefect.Wrap(
			fmt.Errorf("missing %s field", domain.FieldSubmissionID))
	}

	submittedAt, err := parseSubmissionTime(raw.String(domain.FieldSubmissionTime))
	if err != nil {
		return nil, apperrors.ErrRecordMappingDefect.Wrap(
			fmt.Errorf("record %s: %w", id, err))
	}

	report := &domain.LeakReport{
		ID:          id,
		SubmittedAt: submittedAt,
		Location:    n.parseLocation(id, raw.String(domain.FieldLocation)),
		Category:    optional(raw.String(domain.FieldCategory)),
		Severity:    optional(raw.String(domain.FieldSeverity)),
		SourceType:  optional(raw.String(domain.FieldSourceType)),
		Description: optional(raw.String(domain.FieldDescription)),
	}

	if photo := raw.String(domain.FieldPhoto); photo != "" {
		url := fmt.Sprintf("%s/attachments/%s", n.attachmentBase, photo)
		report.PhotoURL = &url
	}

	report.Tags = buildTags(report)

	return report, nil
}

// parseLocation parses the "lat lon altitude accuracy" string. Anything that
// does not yield four numeric tokens with an in-range lat/lon is a
// recoverable mapping condition: the location is simply absent.
func (n *Normalizer) parseLocation(id, raw string) *domain.Point {
	if raw == "" {
		return nil
	}

	tokens := strings.Fields(raw)
	if len(tokens) != 4 {
		n.logger.Debug("Malformed coordinate string, storing report without location",
			zap.String("id", id), zap.String("raw", raw))
		return nil
	}

	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			n.logger.Debug("Non-numeric coordinate token, storing report without location",
				zap.String("id", id), zap.String("token", tok))
			return nil
		}
		values[i] = v
	}

	lat, lon := values[0], values[1]
	if !utils.ValidateCoordinates(lat, lon) {
		n.logger.Debug("Coordinates out of WGS84 bounds, storing report without location",
			zap.String("id", id),
			zap.Float64("lat", lat), zap.Float64("lon", lon))
		return nil
	}

	return &domain.Point{Lat: lat, Lon: lon}
}

// buildTags rebuilds the tag map from scratch. Order matters: the severity
// value overwrites the pipe_burst refinement under the "leak" key when both
// are present, matching the classification scheme observed in the field form.
func buildTags(report *domain.LeakReport) domain.TagMap {
	tags := domain.TagMap{}

	if report.Category != nil {
		tags["waterway"] = *report.Category
		if *report.Category == domain.CategoryPipeBurst {
			tags["leak"] = domain.CategoryPipeBurst
		}
	}
	if report.Severity != nil {
		tags["leak"] = *report.Severity
	}
	if report.SourceType != nil {
		tags["leak:source"] = *report.SourceType
	}
	if report.Description != nil {
		tags["description"] = *report.Description
	}
	if report.PhotoURL != nil {
		tags["image"] = *report.PhotoURL
	}

	if len(tags) == 0 {
		return nil
	}
	return tags
}

// submissionID normalizes the id field, which the source emits as a JSON
// number for API submissions and a string in some export paths.
func submissionID(raw domain.RawSubmission) string {
	v, ok := raw[domain.FieldSubmissionID]
	if !ok || v == nil {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

func parseSubmissionTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing %s field", domain.FieldSubmissionTime)
	}
	for _, layout := range submissionTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable submission time %q", raw)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
