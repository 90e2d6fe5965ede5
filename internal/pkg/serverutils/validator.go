package serverutils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"infoguru-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

const passwordSpecialChars = "!@#$%^&*()-_=+[]{}|;:'\",.<>?/`~"

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,7}$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so field errors match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return PasswordProblem(fl.Field().String()) == ""
	})
	return v
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// PasswordProblem returns the first complexity rule the password breaks, or "".
func PasswordProblem(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long."
	}
	if len(password) > 128 {
		return "Password must be at most 128 characters long."
	}

	var hasDigit, hasLower, hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
		if strings.ContainsRune(passwordSpecialChars, r) {
			hasSpecial = true
		}
	}

	switch {
	case !hasDigit:
		return "Password must contain at least one digit."
	case !hasLower:
		return "Password must contain at least one lowercase letter."
	case !hasUpper:
		return "Password must contain at least one uppercase letter."
	case !hasSpecial:
		return "Password must contain at least one special character."
	}
	return ""
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "email" {
			return "Email should not be empty."
		}
		return "This field is required."
	case "emailaddr":
		return "Enter a valid email address."
	case "strongpassword":
		if s, ok := fe.Value().(string); ok {
			return PasswordProblem(s)
		}
		return "Password is too weak."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	default:
		return "Invalid value."
	}
}

// ValidateRequest runs the struct tags and returns a BadRequest error whose
// Fields hold one message per failing field.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.BadRequest(err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperror.Validation(fields)
}
