package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_012"
	ErrCodeUnknown            ErrorCode = "COMMON_099"
)

// Document / loader error codes.  The extraction core itself never fails
// (partial extraction is success); these codes cover the I/O boundary around
// it — unreadable files, unsupported formats, oversized inputs.
const (
	ErrCodeDocumentNotFound    ErrorCode = "DOC_001"
	ErrCodeDocumentUnreadable  ErrorCode = "DOC_002"
	ErrCodeDocumentUnsupported ErrorCode = "DOC_003"
	ErrCodeDocumentTooLarge    ErrorCode = "DOC_004"
	ErrCodeDocumentEmpty       ErrorCode = "DOC_005"
)

// Case-record error codes (persistence and retrieval of extracted metadata).
const (
	ErrCodeCaseNotFound      ErrorCode = "CASE_001"
	ErrCodeCaseAlreadyExists ErrorCode = "CASE_002"
	ErrCodeCaseInvalidID     ErrorCode = "CASE_003"
	ErrCodeCaseIndexFailed   ErrorCode = "CASE_004"
	ErrCodeCasePublishFailed ErrorCode = "CASE_005"
	ErrCodeCaseArchiveFailed ErrorCode = "CASE_006"
)

// Aliases kept for ergonomic call sites.
const (
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrCodeUnknown
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
)

// HTTPStatus maps an ErrorCode to the HTTP status the API layer should emit.
// Codes without an explicit mapping default to 500.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeCaseInvalidID,
		ErrCodeDocumentUnsupported, ErrCodeDocumentTooLarge, ErrCodeDocumentEmpty:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeCaseNotFound, ErrCodeDocumentNotFound:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeCaseAlreadyExists:
		return http.StatusConflict
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
