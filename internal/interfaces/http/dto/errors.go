package dto

import "net/http"

// Error codes produced by the HTTP layer itself. Domain errors keep the
// code they were raised with.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRouteNotFound:   http.StatusNotFound,

	// Input errors -> 400 Bad Request
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_REFERENCE":      http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,

	// Resource errors
	"NOT_FOUND":        http.StatusNotFound,
	"ALREADY_EXISTS":   http.StatusConflict,
	"CONFLICT":         http.StatusConflict,
	"CONTRACT_OVERLAP": http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"NO_OUTSTANDING_BALANCE": http.StatusUnprocessableEntity,
	"AMOUNT_TOO_LARGE":       http.StatusUnprocessableEntity,
	"NOTHING_TO_RESET":       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
