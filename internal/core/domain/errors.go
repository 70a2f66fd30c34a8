package domain

import "fmt"

// ErrorCode represents categorized error types.
// These codes are stable and can be used for programmatic error handling.
type ErrorCode string

const (
	ErrCodeParse              ErrorCode = "parse_error"
	ErrCodeInvalidKeySize     ErrorCode = "invalid_key_size"
	ErrCodeUnsupportedCurve   ErrorCode = "unsupported_curve"
	ErrCodeUnsupportedKeyType ErrorCode = "unsupported_key_type"
	ErrCodeNoSignature        ErrorCode = "no_signature"
	ErrCodeSigning            ErrorCode = "signing_failed"
	ErrCodeSignatureInvalid   ErrorCode = "signature_invalid"
	ErrCodeFileAccess         ErrorCode = "file_access"
	ErrCodeStorage            ErrorCode = "storage_error"
	ErrCodeConfig             ErrorCode = "config_invalid"
	ErrCodeUsage              ErrorCode = "usage_error"
	ErrCodePublish            ErrorCode = "publish_failed"
	ErrCodeDuplicateReport    ErrorCode = "duplicate_report"
)

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// AppError is a structured error with code, message, and optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the process exit code for this error code.
// Usage and configuration mistakes exit 2, everything else exits 1.
func (c ErrorCode) ExitCode() int {
	switch c {
	case ErrCodeUsage, ErrCodeConfig:
		return 2
	default:
		return 1
	}
}

// Title returns a user-friendly title for this error code.
func (c ErrorCode) Title() string {
	switch c {
	case ErrCodeParse:
		return "Parse Error"
	case ErrCodeInvalidKeySize:
		return "Invalid Key Size"
	case ErrCodeUnsupportedCurve:
		return "Unsupported Curve"
	case ErrCodeUnsupportedKeyType:
		return "Unsupported Key Type"
	case ErrCodeNoSignature:
		return "No Signature Found"
	case ErrCodeSigning:
		return "Signing Failed"
	case ErrCodeSignatureInvalid:
		return "Signature Invalid"
	case ErrCodeFileAccess:
		return "File Access Error"
	case ErrCodeStorage:
		return "Storage Error"
	case ErrCodeConfig:
		return "Configuration Error"
	case ErrCodeUsage:
		return "Usage Error"
	case ErrCodePublish:
		return "Publish Failed"
	case ErrCodeDuplicateReport:
		return "Duplicate Report"
	default:
		return "Error"
	}
}

// ErrorDetail is the structured error format used by machine-readable
// CLI output and decoded from API error responses.
type ErrorDetail struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// NewErrorDetail creates an ErrorDetail from an AppError.
func NewErrorDetail(err *AppError) ErrorDetail {
	return ErrorDetail{
		Code:    err.Code.String(),
		Message: err.Message,
	}
}

// ParseError creates a parse error with optional cause.
func ParseError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeParse, Message: message, Cause: cause}
}

// InvalidKeySizeError creates an error for an unsupported RSA key size.
func InvalidKeySizeError(bits int) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidKeySize,
		Message: fmt.Sprintf("invalid RSA key size %d: must be 2048, 3072, or 4096", bits),
	}
}

// UnsupportedCurveError creates an error for an unrecognized ECDSA curve name.
func UnsupportedCurveError(curve string) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedCurve,
		Message: fmt.Sprintf("unsupported ECDSA curve %q: must be P-256, P-384, or P-521", curve),
	}
}

// UnsupportedKeyTypeError creates an error for a key algorithm the signer
// or verifier does not handle.
func UnsupportedKeyTypeError(message string) *AppError {
	return &AppError{Code: ErrCodeUnsupportedKeyType, Message: message}
}

// NoSignatureError creates the distinguished "document is unsigned" error.
func NoSignatureError() *AppError {
	return &AppError{
		Code:    ErrCodeNoSignature,
		Message: "no signature found in document",
	}
}

// SigningError creates a signing failure with optional cause.
func SigningError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeSigning, Message: message, Cause: cause}
}

// SignatureInvalidError creates a verification failure with optional cause.
func SignatureInvalidError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeSignatureInvalid, Message: message, Cause: cause}
}

// FileAccessError wraps a filesystem failure without translating it; the
// original error stays reachable through errors.Is/As.
func FileAccessError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeFileAccess, Message: message, Cause: cause}
}

// StorageError creates a report storage error with optional cause.
func StorageError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeStorage, Message: message, Cause: cause}
}

// ConfigError creates a configuration error.
func ConfigError(message string) *AppError {
	return &AppError{Code: ErrCodeConfig, Message: message}
}

// UsageError creates a command-line usage error.
func UsageError(message string) *AppError {
	return &AppError{Code: ErrCodeUsage, Message: message}
}

// PublishError creates a publish failure with optional cause.
func PublishError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodePublish, Message: message, Cause: cause}
}

// DuplicateReportError creates the "server already has this report" error.
// detail is the server's explanation when it provided one.
func DuplicateReportError(detail string) *AppError {
	if detail == "" {
		detail = "report has already been published"
	}
	return &AppError{Code: ErrCodeDuplicateReport, Message: detail}
}
