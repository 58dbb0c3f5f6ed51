package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string            `json:"error"`             // Error message
	Code    string            `json:"code,omitempty"`    // Error kind, e.g. INSUFFICIENT_FUNDS
	Details map[string]string `json:"details,omitempty"` // Validation details
}

var passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper with the "password" rule registered
func NewValidationHelper() *ValidationHelper {
	v := validator.New()
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return validPassword(fl.Field().String())
	})
	return &ValidationHelper{
		validator: v,
	}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// validPassword requires at least 10 characters drawn from letters, digits and
// @$!%*?&, with one lowercase, one uppercase, one digit and one special.
func validPassword(password string) bool {
	if len(password) < 10 || !passwordCharset.MatchString(password) {
		return false
	}

	var lower, upper, digit, special bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}

// describeValidation flattens validator errors into one readable reason
func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	reasons := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		reasons = append(reasons, fmt.Sprintf("%s failed '%s' validation", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(reasons, "; ")
}

// HTTPStatus maps an error kind to the status code handlers respond with
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindAlreadyExists:
		return http.StatusConflict
	case KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// SendErrorResponse sends a JSON error response
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{Error: message}
	var validationErrors validator.ValidationErrors
	if errors.As(validationErr, &validationErrors) {
		errorResp.Details = make(map[string]string)
		for _, err := range validationErrors {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}

	json.NewEncoder(w).Encode(errorResp)
}

// SendServiceError writes a service error with the status matching its kind.
// Storage failures never leak their cause to the client.
func SendServiceError(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	message := Reason(err)
	if kind == KindStorageFailure {
		message = "An Internal Error Occurred"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(kind))
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: string(kind)})
}
