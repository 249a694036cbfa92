// Package validation runs the declarative entity schemas (struct tags) and
// turns failures into per-field, user-facing messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const defaultMessage = "Valor inválido"

// Errors maps a form field name to the message shown next to it
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message unless the field already has one
func (e Errors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

// Get returns the message for field, or ""
func (e Errors) Get(field string) string {
	return e[field]
}

// Has reports whether field failed
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Unwrap lets callers match domain.ErrInvalidInput
func (e Errors) Unwrap() error {
	return domain.ErrInvalidInput
}

// AsErrors extracts validation Errors from err
func AsErrors(err error) (Errors, bool) {
	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

// Validator wraps go-playground/validator with the planner's value types.
// It implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

var _ echo.Validator = (*Validator)(nil)

// New creates a Validator
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if amount, ok := field.Interface().(domain.Amount); ok {
			return amount.InexactFloat64()
		}
		return nil
	}, domain.Amount{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if date, ok := field.Interface().(domain.Date); ok {
			return date.String()
		}
		return nil
	}, domain.Date{})

	return &Validator{validate: v}
}

// Validate checks i against its schema. It returns nil or an Errors value.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	root := reflect.TypeOf(i)
	verrs := make(Errors)
	for _, fe := range fieldErrs {
		verrs.Add(fe.Field(), messageFor(root, fe.StructNamespace()))
	}
	return verrs
}

// messageFor reads the msg tag of the field at namespace (Type.Field.Sub) in root
func messageFor(root reflect.Type, namespace string) string {
	for root.Kind() == reflect.Ptr {
		root = root.Elem()
	}

	segments := strings.Split(namespace, ".")
	if len(segments) < 2 {
		return defaultMessage
	}

	current := root
	var field reflect.StructField
	for _, name := range segments[1:] {
		for current.Kind() == reflect.Ptr {
			current = current.Elem()
		}
		if current.Kind() != reflect.Struct {
			return defaultMessage
		}
		f, ok := current.FieldByName(name)
		if !ok {
			return defaultMessage
		}
		field = f
		current = f.Type
	}

	if msg := field.Tag.Get("msg"); msg != "" {
		return msg
	}
	return defaultMessage
}

// MessageFor returns the message for a form value of field (its json name)
// that could not be parsed. A parsemsg tag wins over the schema msg tag.
func MessageFor(i interface{}, field string) string {
	t := reflect.TypeOf(i)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if msg, ok := findMessage(t, field, "parsemsg"); ok {
		return msg
	}
	if msg, ok := findMessage(t, field, "msg"); ok {
		return msg
	}
	return defaultMessage
}

func findMessage(t reflect.Type, field, tag string) (string, bool) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return "", false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == field {
			if msg := f.Tag.Get(tag); msg != "" {
				return msg, true
			}
			return "", false
		}
		// nested variants such as allocation financing are flattened into the form
		if name == "-" {
			if msg, ok := findMessage(f.Type, field, tag); ok {
				return msg, true
			}
		}
	}
	return "", false
}
