// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package validation

import (
	"strings"
	"testing"
)

type queryRequest struct {
	Text     string `validate:"required,min=1,max=20"`
	Language string `validate:"omitempty,oneof=en pa"`
}

type angRequest struct {
	Ang    int    `validate:"gt=0,lte=1430"`
	Source string `validate:"required,source_id"`
}

func TestGetValidatorSingleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one shared instance")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantMsg   string
	}{
		{"valid query", &queryRequest{Text: "find shabad", Language: "en"}, "", ""},
		{"valid without language", &queryRequest{Text: "ਸਬਦ"}, "", ""},
		{"missing text", &queryRequest{}, "Text", "Text is required"},
		{"text too long", &queryRequest{Text: strings.Repeat("a", 21)}, "Text", "Text must be at most 20 characters"},
		{"bad language", &queryRequest{Text: "x", Language: "fr"}, "Language", "Language must be one of: en pa"},
		{"valid ang", &angRequest{Ang: 1, Source: "G"}, "", ""},
		{"zero ang", &angRequest{Ang: 0, Source: "G"}, "Ang", "Ang must be greater than 0"},
		{"ang past end", &angRequest{Ang: 1431, Source: "G"}, "Ang", "Ang must be less than or equal to 1430"},
		{"lower-case source", &angRequest{Ang: 1, Source: "g"}, "Source", "Source must be an upper-case source ID such as G"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		tag     string
		wantMsg string
	}{
		{"valid source", "D", "source_id", ""},
		{"numeric source", "1", "source_id", "source must be an upper-case source ID such as G"},
		{"top_n too large", 51, "gte=1,lte=50", "top_n must be less than or equal to 50"},
		{"top_n zero", 0, "gte=1,lte=50", "top_n must be greater than or equal to 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := "source"
			if tt.tag != "source_id" {
				field = "top_n"
			}
			verr := ValidateVar(field, tt.value, tt.tag)
			if tt.wantMsg == "" {
				if verr != nil {
					t.Fatalf("ValidateVar() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateVar() = nil, want error")
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.wantMsg)
			}
			if verr.Errors()[0].Field() != field {
				t.Errorf("Field() = %q, want %q", verr.Errors()[0].Field(), field)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&queryRequest{})
	apiErr := single.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Details["field"] != "Text" {
		t.Errorf("Details = %v", apiErr.Details)
	}

	multi := ValidateStruct(&angRequest{Ang: 0, Source: ""})
	apiErr = multi.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "Ang: ") || !strings.Contains(apiErr.Message, "Source: ") {
		t.Errorf("Message = %q", apiErr.Message)
	}

	empty := &RequestValidationError{}
	if got := empty.ToAPIError().Message; got != "Validation failed" {
		t.Errorf("empty Message = %q", got)
	}
	if got := empty.Error(); got != "validation failed" {
		t.Errorf("empty Error() = %q", got)
	}
}
