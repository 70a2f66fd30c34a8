package domain

import "time"

// ReportSummary aggregates the counts a JUnit report declares about itself.
type ReportSummary struct {
	// Suites is the number of testsuite elements in the report.
	Suites int `json:"suites" yaml:"suites"`

	// Tests is the total declared test count across all suites.
	Tests int `json:"tests" yaml:"tests"`

	// Failures is the total declared failure count.
	Failures int `json:"failures" yaml:"failures"`

	// Errors is the total declared error count.
	Errors int `json:"errors" yaml:"errors"`

	// Skipped is the total declared skipped count.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Time is the total declared wall-clock time in seconds.
	Time float64 `json:"time" yaml:"time"`
}

// Passed reports whether the summary declares no failures and no errors.
func (s ReportSummary) Passed() bool {
	return s.Failures == 0 && s.Errors == 0
}

// SignatureInfo describes the signature found on a report, for inspection.
type SignatureInfo struct {
	// Present is true when the document carries a ds:Signature element.
	Present bool `json:"present" yaml:"present"`

	// CanonicalizationMethod is the SignedInfo canonicalization URI, when present.
	CanonicalizationMethod string `json:"canonicalization_method,omitempty" yaml:"canonicalization_method,omitempty"`

	// SignatureMethod is the SignatureMethod algorithm URI, when present.
	SignatureMethod string `json:"signature_method,omitempty" yaml:"signature_method,omitempty"`

	// DigestMethod is the first Reference DigestMethod algorithm URI, when present.
	DigestMethod string `json:"digest_method,omitempty" yaml:"digest_method,omitempty"`

	// CertificateSubject is the subject of the embedded certificate, when one
	// is embedded in KeyInfo.
	CertificateSubject string `json:"certificate_subject,omitempty" yaml:"certificate_subject,omitempty"`

	// CertificateNotAfter is the embedded certificate's expiry, when present.
	CertificateNotAfter *time.Time `json:"certificate_not_after,omitempty" yaml:"certificate_not_after,omitempty"`
}

// ReportMetadata is the sidecar record stored next to each archived report.
type ReportMetadata struct {
	// Hash is the canonical hash the report is filed under.
	Hash CanonicalHash `json:"hash" yaml:"hash"`

	// StoredAt is when the report entered the archive, in UTC.
	StoredAt time.Time `json:"stored_at" yaml:"stored_at"`

	// Signed is true when the archived report carries a signature.
	Signed bool `json:"signed" yaml:"signed"`

	// Summary holds the report's declared test counts.
	Summary ReportSummary `json:"summary" yaml:"summary"`

	// Environment describes the machine and build that produced the report.
	Environment EnvironmentMetadata `json:"environment" yaml:"environment"`
}

// StorageStats summarizes the local report archive.
type StorageStats struct {
	// Count is the number of archived reports.
	Count int `json:"count" yaml:"count"`

	// QueuedCount is the number of reports waiting in the publish spool.
	QueuedCount int `json:"queued_count" yaml:"queued_count"`

	// TotalBytes is the combined size of all archived reports.
	TotalBytes int64 `json:"total_bytes" yaml:"total_bytes"`

	// Oldest is the storage time of the oldest archived report.
	Oldest time.Time `json:"oldest,omitempty" yaml:"oldest,omitempty"`

	// Newest is the storage time of the newest archived report.
	Newest time.Time `json:"newest,omitempty" yaml:"newest,omitempty"`
}

// PublishReceipt is the server's acknowledgement of a published report.
type PublishReceipt struct {
	// TestRunID is the server-assigned identifier for the submitted report.
	TestRunID string `json:"test_run_id" yaml:"test_run_id"`

	// Message is the server's human-readable acknowledgement.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// TestCount through SuccessRate echo the server's parse of the report.
	TestCount    int     `json:"test_count,omitempty" yaml:"test_count,omitempty"`
	FailureCount int     `json:"failure_count,omitempty" yaml:"failure_count,omitempty"`
	ErrorCount   int     `json:"error_count,omitempty" yaml:"error_count,omitempty"`
	SkippedCount int     `json:"skipped_count,omitempty" yaml:"skipped_count,omitempty"`
	SuccessRate  float64 `json:"success_rate,omitempty" yaml:"success_rate,omitempty"`
}

// PublishResult is the per-report outcome of a publish attempt.
type PublishResult struct {
	// Hash identifies the report that was submitted.
	Hash CanonicalHash `json:"hash" yaml:"hash"`

	// TestRunID is the server-assigned identifier, empty on failure.
	TestRunID string `json:"test_run_id,omitempty" yaml:"test_run_id,omitempty"`

	// Duplicate is true when the server already had this report.
	Duplicate bool `json:"duplicate,omitempty" yaml:"duplicate,omitempty"`

	// Err holds the failure, nil on success.
	Err error `json:"-" yaml:"-"`
}
