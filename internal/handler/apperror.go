package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount      = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInvalidKind        = &AppError{http.StatusBadRequest, "INVALID_KIND", "Transaction kind must be debt or payment"}
	ErrMalformedTimestamp = &AppError{http.StatusBadRequest, "MALFORMED_TIMESTAMP", "Timestamp must be YYYY-MM-DD HH:MM[:SS]"}
	ErrOverpayment        = &AppError{http.StatusUnprocessableEntity, "OVERPAYMENT", "Payment exceeds the outstanding balance"}
	ErrDuplicateCustomer  = &AppError{http.StatusConflict, "CUSTOMER_ALREADY_EXISTS", "A customer with this name already exists"}
	ErrDuplicateOwner     = &AppError{http.StatusConflict, "USERNAME_TAKEN", "Username already taken"}

	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
