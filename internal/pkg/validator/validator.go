package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})

	validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	validate.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	validate.RegisterValidation("room_type", oneOf("standard", "deluxe", "suite"))
	validate.RegisterValidation("property_status", oneOf("active", "inactive"))
	validate.RegisterValidation("role", oneOf("admin", "manager", "guest"))
}

func oneOf(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

// IsStrongPassword requires at least 8 characters with a lowercase letter,
// an uppercase letter, a digit and a symbol.
func IsStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	fieldErrors := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			fieldErrors[field] = "This field is required"
		case "email":
			fieldErrors[field] = "Invalid email format"
		case "min":
			fieldErrors[field] = "Value is too short (min: " + fe.Param() + ")"
		case "max":
			fieldErrors[field] = "Value is too long (max: " + fe.Param() + ")"
		case "gte":
			fieldErrors[field] = "Value must be at least " + fe.Param()
		case "lte":
			fieldErrors[field] = "Value must be at most " + fe.Param()
		case "url":
			fieldErrors[field] = "Invalid URL format"
		case "uuid":
			fieldErrors[field] = "Invalid identifier"
		case "date":
			fieldErrors[field] = "Invalid date, expected YYYY-MM-DD"
		case "phone":
			fieldErrors[field] = "Invalid phone number"
		case "strongpassword":
			fieldErrors[field] = "Password must be at least 8 characters with upper and lower case letters, a number and a symbol"
		case "room_type":
			fieldErrors[field] = "Invalid room type. Must be: standard, deluxe, or suite"
		case "property_status":
			fieldErrors[field] = "Invalid status. Must be: active or inactive"
		case "role":
			fieldErrors[field] = "Invalid role. Must be: admin, manager, or guest"
		default:
			fieldErrors[field] = "Invalid value"
		}
	}

	return fieldErrors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
