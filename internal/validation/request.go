package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "wbreport/internal/errors"
)

// AnalysisRequest describes the inputs of one analysis run as received from
// the CLI or the HTTP API, before any file is parsed.
type AnalysisRequest struct {
	Label         string   `json:"label" validate:"omitempty,max=100,run_label"`
	PayablePolicy string   `json:"payable_policy" validate:"omitempty,oneof=platform_fees all_fees"`
	ReportNames   []string `json:"reports" validate:"required,min=1,dive,workbook_name"`
	CostName      string   `json:"cost" validate:"omitempty,workbook_name"`
	TotalBytes    int64    `json:"total_bytes" validate:"gte=0"`
}

// FieldError names one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestValidator validates analysis requests against struct tags and the
// configured upload limits.
type RequestValidator struct {
	validate *validator.Validate
	maxFiles int
	maxBytes int64
}

// NewRequestValidator creates a validator. Zero limits disable the
// corresponding check.
func NewRequestValidator(maxFiles int, maxBytes int64) *RequestValidator {
	v := validator.New()
	v.RegisterValidation("workbook_name", func(fl validator.FieldLevel) bool {
		return ValidateWorkbookName(fl.Field().String()) == nil
	})
	v.RegisterValidation("run_label", isRunLabel)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RequestValidator{validate: v, maxFiles: maxFiles, maxBytes: maxBytes}
}

// Validate returns a VALIDATION AppError listing every rejected field, or nil.
func (v *RequestValidator) Validate(req AnalysisRequest) error {
	var fields []FieldError

	if err := v.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperrors.NewAppError(apperrors.ErrTypeValidation, "request validation failed", err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	}

	if v.maxFiles > 0 && len(req.ReportNames) > v.maxFiles {
		fields = append(fields, FieldError{
			Field:   "reports",
			Message: fmt.Sprintf("at most %d report files are accepted, got %d", v.maxFiles, len(req.ReportNames)),
		})
	}
	if v.maxBytes > 0 && req.TotalBytes > v.maxBytes {
		fields = append(fields, FieldError{
			Field:   "total_bytes",
			Message: fmt.Sprintf("upload of %d bytes exceeds the limit of %d", req.TotalBytes, v.maxBytes),
		})
	}

	if len(fields) == 0 {
		return nil
	}

	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return apperrors.NewAppValidationError(strings.Join(msgs, "; ")).
		WithContext("fields", fields)
}

// Fields extracts the field errors attached by Validate.
func Fields(err error) []FieldError {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Context == nil {
		return nil
	}
	fields, _ := appErr.Context["fields"].([]FieldError)
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "at least one report file is required"
	case "workbook_name":
		return fmt.Sprintf("%q is not an .xlsx workbook name", fe.Value())
	case "run_label":
		return "label must not contain path separators or control characters"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}

func isRunLabel(fl validator.FieldLevel) bool {
	label := fl.Field().String()
	if strings.Trim(label, ". ") == "" {
		return false
	}
	for _, r := range label {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
