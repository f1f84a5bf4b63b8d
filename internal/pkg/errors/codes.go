package errors

var (
	// ErrSourceUnavailable aborts a sync run before anything is written.
	ErrSourceUnavailable = New(
		"SOURCE_UNAVAILABLE",
		"Submission source request failed",
	)

	// ErrStoreUnavailable aborts a run before any writes.
	ErrStoreUnavailable = New(
		"STORE_UNAVAILABLE",
		"Spatial store connection failed",
	)

	// ErrRecordMappingDefect marks a single raw record that cannot be
	// normalized; the batch continues.
	ErrRecordMappingDefect = New(
		"RECORD_MAPPING_DEFECT",
		"Raw record cannot be mapped to a leak report",
	)

	// ErrRecordWriteFailure marks a single record whose upsert was rejected;
	// the batch continues.
	ErrRecordWriteFailure = New(
		"RECORD_WRITE_FAILURE",
		"Store rejected the record upsert",
	)

	// ErrScoreQueryFailure marks a single report whose neighbor query failed;
	// scoring continues with the rest.
	ErrScoreQueryFailure = New(
		"SCORE_QUERY_FAILURE",
		"Neighbor query failed for report",
	)

	// ErrRunLockHeld means another sync or score pass holds the run lock.
	ErrRunLockHeld = New(
		"RUN_LOCK_HELD",
		"Another run is in progress",
	)

	ErrReportNotFound = New(
		"REPORT_NOT_FOUND",
		"Leak report not found",
	)
)
