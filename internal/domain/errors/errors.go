package errors

import (
	"net/http"

	"autocrm/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Customer-related errors
	ErrCustomerNotFound = NewBaseError(
		http.StatusNotFound,
		"CUSTOMER_NOT_FOUND",
		"Không tìm thấy khách hàng",
		"",
	)

	ErrDuplicatePhone = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_PHONE",
		"Số điện thoại đã tồn tại trong hệ thống",
		"",
	)

	ErrInvalidPhone = NewBaseError(
		http.StatusBadRequest,
		"INVALID_PHONE",
		"Số điện thoại không hợp lệ",
		"",
	)

	ErrCustomerLocked = NewBaseError(
		http.StatusForbidden,
		"CUSTOMER_LOCKED",
		"Khách hàng đang chờ duyệt, không thể chỉnh sửa",
		"",
	)

	// Access-related errors
	ErrAccessDenied = NewBaseError(
		http.StatusForbidden,
		"ACCESS_DENIED",
		"Bạn không có quyền truy cập khách hàng này",
		"",
	)

	ErrEditDenied = NewBaseError(
		http.StatusForbidden,
		"EDIT_DENIED",
		"Bạn chỉ có quyền xem khách hàng này",
		"",
	)

	ErrElevatedOnly = NewBaseError(
		http.StatusForbidden,
		"ELEVATED_ONLY",
		"Chỉ quản trị viên hoặc quản lý mới được thực hiện thao tác này",
		"",
	)

	ErrAccountLocked = NewBaseError(
		http.StatusForbidden,
		"ACCOUNT_LOCKED",
		"Tài khoản của bạn đang bị khóa chức năng này",
		"",
	)

	ErrShareNotFound = NewBaseError(
		http.StatusNotFound,
		"SHARE_NOT_FOUND",
		"Không tìm thấy lượt chia sẻ",
		"",
	)

	// Lifecycle-related errors
	ErrInvalidTransition = NewBaseError(
		http.StatusConflict,
		"INVALID_TRANSITION",
		"Trạng thái khách hàng không cho phép thao tác này",
		"",
	)

	ErrNothingToApprove = NewBaseError(
		http.StatusConflict,
		"NOTHING_TO_APPROVE",
		"Khách hàng không có yêu cầu nào đang chờ duyệt",
		"",
	)

	ErrDealNotWon = NewBaseError(
		http.StatusConflict,
		"DEAL_NOT_WON",
		"Khách hàng chưa chốt đơn",
		"",
	)

	ErrTransferNotPending = NewBaseError(
		http.StatusConflict,
		"TRANSFER_NOT_PENDING",
		"Khách hàng không có yêu cầu chuyển giao nào",
		"",
	)

	// Finance-related errors
	ErrTransactionNotFound = NewBaseError(
		http.StatusNotFound,
		"TRANSACTION_NOT_FOUND",
		"Không tìm thấy giao dịch",
		"",
	)

	ErrInvalidAmount = NewBaseError(
		http.StatusBadRequest,
		"INVALID_AMOUNT",
		"Số tiền không hợp lệ",
		"",
	)

	ErrDailyLoanCapExceeded = NewBaseError(
		http.StatusUnprocessableEntity,
		"DAILY_LOAN_CAP_EXCEEDED",
		"Vượt hạn mức mượn tiền trong ngày (100.000.000 ₫)",
		"",
	)

	ErrTransactionNotPending = NewBaseError(
		http.StatusConflict,
		"TRANSACTION_NOT_PENDING",
		"Giao dịch đã được xử lý trước đó",
		"",
	)

	ErrDebtAlreadyCollected = NewBaseError(
		http.StatusConflict,
		"DEBT_ALREADY_COLLECTED",
		"Công nợ đại lý đã được thu",
		"",
	)

	// Delivery progress errors
	ErrUnknownProgressStep = NewBaseError(
		http.StatusBadRequest,
		"UNKNOWN_PROGRESS_STEP",
		"Bước giao xe không hợp lệ",
		"",
	)

	ErrStepNotApplicable = NewBaseError(
		http.StatusConflict,
		"STEP_NOT_APPLICABLE",
		"Bước này không áp dụng cho hình thức thanh toán hiện tại",
		"",
	)

	ErrStepOrderViolated = NewBaseError(
		http.StatusConflict,
		"STEP_ORDER_VIOLATED",
		"Phải hoàn thành các bước trước đó trước khi tích bước này",
		"",
	)

	// Authentication-related errors
	ErrProfileNotFound = NewBaseError(
		http.StatusNotFound,
		"PROFILE_NOT_FOUND",
		"Không tìm thấy nhân viên",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Email hoặc mật khẩu không đúng",
		"",
	)

	ErrTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_INVALID",
		"Phiên đăng nhập không hợp lệ hoặc đã hết hạn",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Lỗi xử lý mật khẩu",
		"",
	)

	// Directory errors
	ErrDistributorNotFound = NewBaseError(
		http.StatusNotFound,
		"DISTRIBUTOR_NOT_FOUND",
		"Không tìm thấy đại lý",
		"",
	)

	ErrCarModelNotFound = NewBaseError(
		http.StatusNotFound,
		"CAR_MODEL_NOT_FOUND",
		"Không tìm thấy dòng xe",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Dữ liệu gửi lên không hợp lệ",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Lỗi truy xuất cơ sở dữ liệu"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// Unwrap returns the underlying cause
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}
