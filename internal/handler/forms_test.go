package handler

import (
	"errors"
	"testing"
)

func TestFormValidate(t *testing.T) {
	form := Form{
		{Name: "title", Kind: FieldText, Required: true},
		{Name: "genre", Kind: FieldEnum, Required: true, Options: []string{"drama", "comedy"}},
		{Name: "runtime_min", Kind: FieldNumber, Required: true, Positive: true},
		{Name: "description", Kind: FieldLongText},
	}

	cases := []struct {
		name      string
		payload   map[string]any
		wantField string
	}{
		{
			name:    "valid payload",
			payload: map[string]any{"title": "Solaris", "genre": "drama", "runtime_min": float64(167)},
		},
		{
			name:    "optional field absent",
			payload: map[string]any{"title": "Solaris", "genre": "Drama", "runtime_min": float64(90)},
		},
		{
			name:      "missing required",
			payload:   map[string]any{"genre": "drama", "runtime_min": float64(90)},
			wantField: "title",
		},
		{
			name:      "blank required text",
			payload:   map[string]any{"title": "   ", "genre": "drama", "runtime_min": float64(90)},
			wantField: "title",
		},
		{
			name:      "enum outside options",
			payload:   map[string]any{"title": "Solaris", "genre": "western", "runtime_min": float64(90)},
			wantField: "genre",
		},
		{
			name:      "number not integral",
			payload:   map[string]any{"title": "Solaris", "genre": "drama", "runtime_min": 90.5},
			wantField: "runtime_min",
		},
		{
			name:      "number below one",
			payload:   map[string]any{"title": "Solaris", "genre": "drama", "runtime_min": float64(0)},
			wantField: "runtime_min",
		},
		{
			name:      "number as string",
			payload:   map[string]any{"title": "Solaris", "genre": "drama", "runtime_min": "90"},
			wantField: "runtime_min",
		},
		{
			name:      "longtext wrong type",
			payload:   map[string]any{"title": "Solaris", "genre": "drama", "runtime_min": float64(90), "description": 7},
			wantField: "description",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := form.Validate(tc.payload)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var fe *FormError
			if !errors.As(err, &fe) {
				t.Fatalf("Validate() = %v, want *FormError", err)
			}
			if fe.Field != tc.wantField {
				t.Fatalf("failed field = %q, want %q", fe.Field, tc.wantField)
			}
		})
	}
}
