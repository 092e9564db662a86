package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
	enums    map[string][]string
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &Validator{validate: v, enums: make(map[string][]string)}
}

// RegisterEnum adds a tag that accepts only the given values. Empty strings are
// left to the "required" tag.
func (v *Validator) RegisterEnum(tag string, values ...string) error {
	allowed := make(map[string]struct{}, len(values))
	for _, value := range values {
		allowed[value] = struct{}{}
	}
	fn := func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, ok := allowed[s]
		return ok
	}
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register %s: %w", tag, err)
	}
	v.enums[tag] = values

	// gin binding tags share the same enum names.
	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := engine.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register gin %s: %w", tag, err)
		}
	}
	return nil
}

// Struct validates s and returns an *apperror.Error of kind validation listing
// every failing field, or nil.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation(err.Error())
	}
	return v.toAppError(verrs)
}

// Var validates a single value against tag.
func (v *Validator) Var(field string, value interface{}, tag string) error {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation(err.Error())
	}
	msg := v.message(verrs[0])
	return apperror.Validation(field+" "+msg, apperror.FieldError{Field: field, Error: msg})
}

func (v *Validator) toAppError(verrs validator.ValidationErrors) error {
	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{Field: fieldPath(fe), Error: v.message(fe)})
	}
	first := fields[0]
	return apperror.Validation(first.Field+" "+first.Error, fields...)
}

func (v *Validator) message(fe validator.FieldError) string {
	if values, ok := v.enums[fe.Tag()]; ok {
		return "must be one of: " + strings.Join(values, ", ")
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

// fieldPath drops the top-level struct name from the namespace so that nested
// slice fields read as "tags[2]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
