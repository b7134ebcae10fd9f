package customer

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	xstrings "github.com/charmbracelet/x/exp/strings"
)

// ErrInvalid is returned when a payload fails validation.
var ErrInvalid = errors.New("invalid customer")

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{8,20}$`)

	validate = sync.OnceValue(newValidator)
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string
	Message string
}

func (fe FieldError) String() string {
	return fe.Field + ": " + fe.Message
}

// ValidationError collects every invalid field of a payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.String())
	}

	return fmt.Sprintf("%v: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Validate checks a [CreateRequest] or [UpdateRequest].
func Validate(v any) error {
	err := validate().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldError{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}

	return ve
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	must(v.RegisterValidation("letter", func(fl validator.FieldLevel) bool {
		return slices.Contains(Letters, fl.Field().String())
	}))
	must(v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return slices.Contains(Levels, fl.Field().String())
	}))
	must(v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}))

	return v
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a phone number"
	case "letter":
		return "must be one of " + xstrings.EnglishJoin(Letters, true)
	case "level":
		return "must be one of " + xstrings.EnglishJoin(Levels, true)
	case "min":
		return "must not be empty"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	}

	return "failed " + fe.Tag() + " check"
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
