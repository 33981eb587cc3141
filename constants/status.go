package constants

// JobStatus is the canonical lifecycle status for rows in the cvs table.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusPending    JobStatus = "pending"    // created by the upload flow
	JobStatusProcessing JobStatus = "processing" // attempt in flight
	JobStatusCompleted  JobStatus = "completed"  // terminal, analysis persisted
	JobStatusError      JobStatus = "error"      // terminal for the attempt
)
