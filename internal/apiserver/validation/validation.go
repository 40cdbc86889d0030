package validation

import (
	"errors"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/techmine/techmine/internal/common/cnst"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-\(\)]+$`)

// FieldError is one failed rule, named by the field's JSON key
type FieldError struct {
	Field string
	Rule  string
	Param string
}

// MessageID maps the rule to its catalog entry
func (f FieldError) MessageID() string {
	switch f.Rule {
	case "required", "notblank":
		return "ValidationRequired"
	case "min":
		return "ValidationMin"
	case "max":
		return "ValidationMax"
	case "email":
		return "ValidationEmail"
	case "url", "file_url":
		return "ValidationURL"
	case "phone":
		return "ValidationPhone"
	case "attachment_type":
		return "ValidationAttachmentType"
	default:
		return "ValidationInvalid"
	}
}

// Errors is returned when at least one field fails validation
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, f := range e {
		parts[i] = f.Field + ": " + f.Rule
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validator checks inputs against their validate tags
type Validator struct {
	v *validator.Validate
}

// New registers the custom rules and reports fields by their JSON name
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("file_url", func(fl validator.FieldLevel) bool {
		return isFileURL(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("attachment_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case cnst.AttachmentTypeForage, cnst.AttachmentTypeMinage:
			return true
		}
		return false
	})
	return &Validator{v: v}
}

// isFileURL accepts absolute http, https and ftp URLs with a host
func isFileURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
		return true
	}
	return false
}

// Struct returns Errors when input breaks a rule, nil otherwise
func (v *Validator) Struct(input any) error {
	err := v.v.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}
