package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/trucklot/backend/internal/domain/calendar"
	"github.com/trucklot/backend/internal/domain/lot"
	"github.com/trucklot/backend/internal/interfaces/http/dto"
)

// customValidations are the lot-specific binding tags.
var customValidations = map[string]validator.Func{
	"plate": func(fl validator.FieldLevel) bool {
		return lot.IsValidPlate(fl.Field().String())
	},
	"usstate": func(fl validator.FieldLevel) bool {
		state, err := lot.OptionalState(fl.Field().String())
		return err == nil && state != nil
	},
	"ymd": func(fl validator.FieldLevel) bool {
		_, ok := calendar.ParseYMD(fl.Field().String())
		return ok
	},
	"ym": func(fl validator.FieldLevel) bool {
		_, _, ok := calendar.ParseYM(strings.TrimSpace(fl.Field().String()))
		return ok
	},
	"paymethod": func(fl validator.FieldLevel) bool {
		return lot.PaymentMethod(lot.NormalizeWhitespace(fl.Field().String())).IsValid()
	},
	"money": func(fl validator.FieldLevel) bool {
		_, err := lot.ParseAmount("Amount", fl.Field().String())
		return err == nil
	},
}

// SetupValidator reports fields by their json or form name and registers
// the custom tags on gin's validator.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	for tag, fn := range customValidations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// FormatValidationErrors turns a binding error into a VALIDATION_ERROR
// response. Errors that are not field validations, such as malformed
// JSON, come back without details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	details := []dto.ValidationDetail{}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
		return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
	}
	return dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Malformed request: "+err.Error(), requestID)
}

// HandleValidationError writes a 400 response for a binding error.
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "plate":
		return "Plate must be 2-15 chars (A-Z, 0-9, dash, space)"
	case "usstate":
		return "State must be exactly 2 letters (e.g., TX)"
	case "ymd":
		return "Must be a date in YYYY-MM-DD format"
	case "ym":
		return "Must be a month in YYYY-MM format"
	case "paymethod":
		return "Must be one of: cash card zelle venmo other"
	case "money":
		return "Must be an amount greater than 0"
	default:
		return "Invalid value"
	}
}
