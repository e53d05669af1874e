// Package validation checks request payloads before they reach the service
// layer. Rules are struct tags evaluated by go-playground/validator; the
// first failing field is reported as a *Error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/personapi/internal/common"
	"github.com/go-playground/validator/v10"
)

type RegisterRequest struct {
	FirstName   string  `json:"firstName" validate:"required,max=100"`
	LastName    string  `json:"lastName" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8,max=72,maxbytes=72"`
	Gender      *string `json:"gender" validate:"omitnil,max=100"`
	Religion    *string `json:"religion" validate:"omitnil,max=100"`
	Nationality *string `json:"nationality" validate:"omitnil,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateRequest is a partial person. Absent fields are nil and skipped;
// present ones follow the registration rules.
type UpdateRequest struct {
	FirstName   *string `json:"firstName" validate:"omitnil,min=1,max=100"`
	LastName    *string `json:"lastName" validate:"omitnil,min=1,max=100"`
	Email       *string `json:"email" validate:"omitnil,email"`
	Password    *string `json:"password" validate:"omitnil,min=8,max=72,maxbytes=72"`
	Gender      *string `json:"gender" validate:"omitnil,max=100"`
	Religion    *string `json:"religion" validate:"omitnil,max=100"`
	Nationality *string `json:"nationality" validate:"omitnil,max=100"`
}

// Error describes the first rule a payload broke.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return common.ErrValidation }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

// maxBytes bounds the UTF-8 length of a string. bcrypt hashes at most 72
// bytes, which a shorter multibyte password can already exceed.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(err)
	}
	return len(fl.Field().String()) <= limit
}

func ValidateRegister(r RegisterRequest) error { return check(r) }

func ValidateLogin(r LoginRequest) error { return check(r) }

func ValidateUpdate(r UpdateRequest) error { return check(r) }

func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	fe := fieldErrs[0]
	return &Error{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "email":
		return fmt.Sprintf("%q must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", fe.Field(), fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%q length must be less than or equal to %s bytes", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", fe.Field())
	}
}
