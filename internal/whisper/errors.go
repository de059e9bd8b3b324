package whisper

import "errors"

// ErrPollTimeout is returned when the job never reaches a terminal status
// within the polling budget.
var ErrPollTimeout = errors.New("extraction job did not finish within the polling budget")

// JobFailedError is returned when the extraction service reports a terminal
// failure for the job. Message is the service-reported reason.
type JobFailedError struct {
	Message string
}

func (e *JobFailedError) Error() string {
	return "extraction job failed: " + e.Message
}
