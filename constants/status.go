package constants

// JobStatus is the status reported by the remote extraction service for an
// in-flight whisper job.
type JobStatus string

// Stable values (these exact strings appear on the wire).
const (
	JobStatusPending    JobStatus = "pending"    // accepted, not started
	JobStatusProcessing JobStatus = "processing" // in progress
	JobStatusProcessed  JobStatus = "processed"  // terminal success (text ready)
	JobStatusFailed     JobStatus = "failed"     // terminal failure
	JobStatusUnknown    JobStatus = "unknown"    // unrecognized wire value
)

// ParseJobStatus maps a wire value onto the enum; anything unrecognized
// becomes JobStatusUnknown and the poller keeps waiting.
func ParseJobStatus(s string) JobStatus {
	switch JobStatus(s) {
	case JobStatusPending, JobStatusProcessing, JobStatusProcessed, JobStatusFailed:
		return JobStatus(s)
	default:
		return JobStatusUnknown
	}
}

// Terminal reports whether no further transition can occur for this status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusProcessed || s == JobStatusFailed
}
