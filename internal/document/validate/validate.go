// Package validate turns untyped request bodies into validated document
// payloads, accumulating every violation instead of failing on the first.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/invoicegen/internal/document/domain"
)

const dateLayout = "2006-01-02"

// Validator checks document payloads against the declarative schema on the
// domain structs plus a handful of cross-field rules.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Error paths use the wire field names, not Go identifiers.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("document_type", validateDocumentType); err != nil {
		panic(fmt.Sprintf("register document_type validator: %v", err))
	}

	return &Validator{validate: v}
}

func validateDocumentType(fl validator.FieldLevel) bool {
	return domain.DocumentType(fl.Field().String()).Valid()
}

// Parse decodes raw into a payload and validates it in one pass.
//
// A body that cannot be decoded at all returns domain.ErrMalformedBody. A
// decoded body with invalid fields returns domain.ValidationErrors listing
// every violation in field declaration order. A nil error means the payload
// is complete and internally consistent.
func (v *Validator) Parse(raw []byte) (domain.Payload, error) {
	var payload domain.Payload

	if err := json.Unmarshal(raw, &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return domain.Payload{}, domain.ValidationErrors{{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("must be of type %s", typeErr.Type),
			}}
		}
		return domain.Payload{}, domain.ErrMalformedBody
	}

	return payload, v.Check(payload)
}

// Check validates an already decoded payload.
func (v *Validator) Check(payload domain.Payload) error {
	var errs domain.ValidationErrors

	if err := v.validate.Struct(payload); err != nil {
		invalid, ok := err.(validator.ValidationErrors)
		if !ok {
			return domain.ValidationErrors{{Field: "", Message: "invalid payload"}}
		}
		for _, fe := range invalid {
			errs = append(errs, domain.FieldError{
				Field:   fieldPath(fe),
				Message: messageFor(fe),
			})
		}
	}

	errs = append(errs, crossFieldErrors(payload)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func crossFieldErrors(payload domain.Payload) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if payload.IssueDate != "" && payload.DueDate != "" {
		issued, err1 := time.Parse(dateLayout, payload.IssueDate)
		due, err2 := time.Parse(dateLayout, payload.DueDate)
		if err1 == nil && err2 == nil && due.Before(issued) {
			errs = append(errs, domain.FieldError{
				Field:   "due_date",
				Message: "must not be before issue_date",
			})
		}
	}
	return errs
}

// fieldPath strips the root struct name from the validator namespace, leaving
// a wire-level path such as "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "document_type":
		return "must be one of invoice, receipt, quotation, proforma"
	case "iso4217":
		return "must be a recognized 3-letter currency code"
	case "email":
		return "must be a valid email address"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", fe.Param())
	case "hexcolor":
		return "must be a hex color"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
