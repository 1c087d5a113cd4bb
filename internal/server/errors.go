package server

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/saralbooks/saralbooks/internal/analytics/domain"
	auditdomain "github.com/saralbooks/saralbooks/internal/audit/domain"
	customerdomain "github.com/saralbooks/saralbooks/internal/customer/domain"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	invoicedomain "github.com/saralbooks/saralbooks/internal/invoice/domain"
	productdomain "github.com/saralbooks/saralbooks/internal/product/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// fieldErrorsToValidation converts the per-field error map produced by
// submit-time validation into the wire shape, in stable field order.
func fieldErrorsToValidation(errs invoicedomain.FieldErrors) *ValidationErrors {
	out := &ValidationErrors{Errors: make([]ValidationError, 0, len(errs))}
	for _, field := range errs.Fields() {
		message := errs[field]
		code := "invalid"
		if strings.Contains(message, "required") {
			code = "required"
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Code:    code,
			Message: message,
		})
	}
	sort.Slice(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return out
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}
	var fieldErrs invoicedomain.FieldErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  fieldErrorsToValidation(fieldErrs).Errors,
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, invoicedomain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, invoicedomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(err.Error()),
					Code:    err.Error(),
					Message: validationErrorMessage(err),
				},
			},
		}
	case isStateConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, invoicedomain.ErrOCRUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "extraction service unavailable, please retry with clearer source documents",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrNoFiles),
		errors.Is(err, invoicedomain.ErrTooManyFiles),
		errors.Is(err, invoicedomain.ErrReasonRequired),
		errors.Is(err, invoicedomain.ErrDataRequired),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, productdomain.ErrInvalidID),
		errors.Is(err, auditdomain.ErrInvalidAction),
		errors.Is(err, auditdomain.ErrInvalidUserID),
		errors.Is(err, auditdomain.ErrInvalidTimeRange),
		errors.Is(err, analyticsdomain.ErrInvalidDateRange):
		return true
	default:
		return false
	}
}

// isStateConflictError covers transitions attempted from an invalid
// current state: a client/race condition, not a system fault.
func isStateConflictError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrNotEditable),
		errors.Is(err, invoicedomain.ErrNotSubmittable),
		errors.Is(err, invoicedomain.ErrNotPendingApproval),
		errors.Is(err, invoicedomain.ErrNotApproved),
		errors.Is(err, invoicedomain.ErrNoItems),
		errors.Is(err, invoicedomain.ErrCustomerConflict):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, documentdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return "request"
}

func validationErrorMessage(err error) string {
	switch {
	case errors.Is(err, invoicedomain.ErrReasonRequired):
		return "rejection reason is required"
	case errors.Is(err, invoicedomain.ErrDataRequired):
		return "customer and items data required for approval"
	case errors.Is(err, invoicedomain.ErrNoFiles):
		return "no files uploaded"
	case errors.Is(err, invoicedomain.ErrTooManyFiles):
		return "too many files in one upload"
	default:
		return "invalid value"
	}
}
