package handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
)

// FieldKind selects the validation applied to one form field.
type FieldKind int

const (
	// FieldText is a single-line string.
	FieldText FieldKind = iota
	// FieldNumber is a non-negative integer; Positive tightens it to >= 1.
	FieldNumber
	// FieldLongText is a multi-line string, validated like FieldText.
	FieldLongText
	// FieldEnum restricts the value to one of Options.
	FieldEnum
)

// FormField describes one field of an admin form.  The admin CRUD
// endpoints are driven by these descriptions instead of per-screen
// validation code, so adding a field to a form is a data change.
type FormField struct {
	Name     string
	Kind     FieldKind
	Required bool
	Positive bool
	Options  []string
}

// Form is an ordered field list describing one admin modal.
type Form []FormField

// FormError names the first field that failed validation.
type FormError struct {
	Field  string
	Reason string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate checks the decoded payload against the form, returning a
// *FormError for the first violation in field order.
func (f Form) Validate(payload map[string]any) error {
	for _, field := range f {
		v, ok := payload[field.Name]
		if !ok || v == nil {
			if field.Required {
				return &FormError{Field: field.Name, Reason: "required"}
			}
			continue
		}
		switch field.Kind {
		case FieldNumber:
			n, ok := v.(float64)
			if !ok || n != float64(int(n)) {
				return &FormError{Field: field.Name, Reason: "must be an integer"}
			}
			if n < 0 || (field.Positive && n < 1) {
				return &FormError{Field: field.Name, Reason: "must be positive"}
			}
		case FieldEnum:
			s, ok := v.(string)
			if !ok {
				return &FormError{Field: field.Name, Reason: "must be a string"}
			}
			found := false
			for _, opt := range field.Options {
				if strings.EqualFold(s, opt) {
					found = true
					break
				}
			}
			if !found {
				return &FormError{Field: field.Name, Reason: "must be one of " + strings.Join(field.Options, ", ")}
			}
		default: // FieldText, FieldLongText
			s, ok := v.(string)
			if !ok {
				return &FormError{Field: field.Name, Reason: "must be a string"}
			}
			if field.Required && strings.TrimSpace(s) == "" {
				return &FormError{Field: field.Name, Reason: "required"}
			}
		}
	}
	return nil
}

// decodeForm binds the request body, validates it against the form and
// decodes the validated payload into out.
func decodeForm(c echo.Context, form Form, out any) error {
	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		return &FormError{Field: "body", Reason: "invalid JSON"}
	}
	if err := form.Validate(payload); err != nil {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return &FormError{Field: "body", Reason: "invalid JSON"}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &FormError{Field: "body", Reason: "invalid JSON"}
	}
	return nil
}
