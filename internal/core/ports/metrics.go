package ports

// MetricsRecorder is the port interface for recording metrics.
// Implementations are adapters (PrometheusMetricsRecorder for production,
// NoopMetricsRecorder for disabled/testing).
type MetricsRecorder interface {
	// RecordKeyGenerated records a key generation, labeled by algorithm
	// ("rsa-2048", "ecdsa-p256", ...).
	RecordKeyGenerated(algorithm string)

	// RecordReportSigned records a signing operation, labeled by the
	// signature algorithm used.
	RecordReportSigned(algorithm string)

	// RecordVerification records a verification outcome: "valid",
	// "invalid", or "no_signature".
	RecordVerification(outcome string)

	// RecordReportStored records an archived report and its size in bytes.
	RecordReportStored(sizeBytes int)

	// RecordPublish records a publish attempt result: "published",
	// "duplicate", or "failed".
	RecordPublish(outcome string)
}
