package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Ledger & Fund Movement (LGR) ----

func ErrInsufficientFunds() *AppError {
	return New("LGR_001", "Insufficient funds", http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("LGR_002", "Invalid amount", http.StatusBadRequest)
}

func ErrWalletNotFound(which string) *AppError {
	return New("LGR_003", fmt.Sprintf("%s wallet not found", which), http.StatusNotFound)
}

func ErrWalletInactive(which string) *AppError {
	return New("LGR_004", fmt.Sprintf("%s wallet is not active", which), http.StatusBadRequest)
}

func ErrRoleNotEligible() *AppError {
	return New("LGR_005", "Recipient role is not eligible for this transfer", http.StatusForbidden)
}

// ---- Vendor Charges (POS) ----

func ErrPassportNotFound() *AppError {
	return New("POS_001", "Passport not found", http.StatusNotFound)
}

func ErrVendorProfileNotFound() *AppError {
	return New("POS_002", "Vendor profile not found", http.StatusNotFound)
}

// ---- Payout Transfers (TRF) ----

func ErrTransferNotAvailable() *AppError {
	return New("TRF_001", "Transfer not available", http.StatusConflict)
}

func ErrTransferNotFound() *AppError {
	return New("TRF_002", "Transfer not found", http.StatusNotFound)
}

func ErrBankReferenceRequired() *AppError {
	return New("TRF_003", "Bank reference must be at least 4 characters", http.StatusBadRequest)
}

func ErrBankAccountNotFound() *AppError {
	return New("TRF_004", "Bank account not found", http.StatusNotFound)
}

// ---- Authentication & Authorization (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_002", "Operation not permitted for this role", http.StatusForbidden)
}

func ErrActorMismatch() *AppError {
	return New("AUTH_003", "Acting user does not match the authenticated session", http.StatusForbidden)
}

// ---- Generic ----

func ErrNotFound(entity string) *AppError {
	return New("GEN_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrDuplicate(entity string) *AppError {
	return New("GEN_002", fmt.Sprintf("%s already exists", entity), http.StatusConflict)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a 400 validation error with a caller-supplied message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
