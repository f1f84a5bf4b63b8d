package domain

// Raw submission field names as delivered by the KoboToolbox data API.
// The underscore-prefixed fields are Kobo metadata, the rest come from the
// leak report form.
const (
	FieldSubmissionID   = "_id"
	FieldSubmissionTime = "_submission_time"
	FieldLocation       = "leak_location"
	FieldCategory       = "leak_type"
	FieldSeverity       = "leak_intensity"
	FieldSourceType     = "leak_source"
	FieldDescription    = "description_details"
	FieldPhoto          = "leak_photo"
)

// CategoryPipeBurst is the form value that carries an extra refinement tag.
const CategoryPipeBurst = "pipe_burst"

// RawSubmission is one untyped record from the submission source.
type RawSubmission map[string]interface{}

// String returns the value for key as a non-empty string, or "" when the key
// is absent, null, or not a string.
func (r RawSubmission) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
