package jux

import (
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// Re-export error types from domain package for backward compatibility
type ErrorCode = domain.ErrorCode
type AppError = domain.AppError
type ErrorDetail = domain.ErrorDetail

// Re-export error code constants
const (
	ErrCodeParse              = domain.ErrCodeParse
	ErrCodeInvalidKeySize     = domain.ErrCodeInvalidKeySize
	ErrCodeUnsupportedCurve   = domain.ErrCodeUnsupportedCurve
	ErrCodeUnsupportedKeyType = domain.ErrCodeUnsupportedKeyType
	ErrCodeNoSignature        = domain.ErrCodeNoSignature
	ErrCodeSigning            = domain.ErrCodeSigning
	ErrCodeSignatureInvalid   = domain.ErrCodeSignatureInvalid
	ErrCodeFileAccess         = domain.ErrCodeFileAccess
	ErrCodeStorage            = domain.ErrCodeStorage
	ErrCodeConfig             = domain.ErrCodeConfig
	ErrCodeUsage              = domain.ErrCodeUsage
	ErrCodePublish            = domain.ErrCodePublish
	ErrCodeDuplicateReport    = domain.ErrCodeDuplicateReport
)

// Re-export error constructors
var (
	ParseError              = domain.ParseError
	InvalidKeySizeError     = domain.InvalidKeySizeError
	UnsupportedCurveError   = domain.UnsupportedCurveError
	UnsupportedKeyTypeError = domain.UnsupportedKeyTypeError
	NoSignatureError        = domain.NoSignatureError
	SigningError            = domain.SigningError
	SignatureInvalidError   = domain.SignatureInvalidError
	FileAccessError         = domain.FileAccessError
	StorageError            = domain.StorageError
	ConfigError             = domain.ConfigError
	UsageError              = domain.UsageError
	PublishError            = domain.PublishError
	DuplicateReportError    = domain.DuplicateReportError
	NewErrorDetail          = domain.NewErrorDetail
)
