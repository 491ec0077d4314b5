package manifest

import (
	"strings"
	"testing"
)

func TestValidateFile_ValidManifests(t *testing.T) {
	for _, file := range []string{"valid/apps.json", "valid/privacy.yaml", "valid/services.toml"} {
		t.Run(file, func(t *testing.T) {
			result, err := ValidateFile(testPath(file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) error: %v", file, err)
			}
			if !result.Valid {
				for _, issue := range result.Issues {
					t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
				}
			}
		})
	}
}

func TestValidateFile_InvalidManifests(t *testing.T) {
	tests := []struct {
		file    string
		keyword string
	}{
		{"invalid-missing-command.yaml", "required"},
		{"invalid-bad-category.json", "enum"},
		{"invalid-version.yaml", "format_version"},
		{"invalid-extra-field.json", "additionalProperties"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateFile(testPath(tt.file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) unexpected error: %v", tt.file, err)
			}
			if result.Valid {
				t.Fatalf("expected invalid for %s", tt.file)
			}
			found := false
			for _, issue := range result.Issues {
				if issue.Keyword == tt.keyword {
					found = true
				}
			}
			if !found {
				t.Errorf("no issue with keyword %q in %+v", tt.keyword, result.Issues)
			}
		})
	}
}

func TestValidate_FormatVersion(t *testing.T) {
	tests := []struct {
		version string
		valid   bool
	}{
		{"1.0.0", true},
		{"v1.4.2", true},
		{"1.9", true},
		{"2.0.0", false},
		{"0.9.0", false},
		{"latest", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			data := []byte(`{"format_version":"` + tt.version + `","items":[]}`)
			result, err := Validate(data, FormatJSON)
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if result.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (issues %+v)", result.Valid, tt.valid, result.Issues)
			}
		})
	}
}

func TestValidate_BrokenJSON(t *testing.T) {
	if _, err := Validate([]byte(`{"items": [`), FormatJSON); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestValidationResult_Summary(t *testing.T) {
	r := &ValidationResult{Issues: []ValidationIssue{
		{Path: "/items/0", Message: "a"},
		{Path: "/items/1", Message: "b"},
		{Message: "c"},
		{Message: "d"},
		{Message: "e"},
	}}
	got := r.Summary()
	if !strings.HasPrefix(got, "/items/0: a; /items/1: b; c") || !strings.HasSuffix(got, "and 2 more") {
		t.Errorf("Summary() = %q", got)
	}
	if (&ValidationResult{Valid: true}).Summary() != "" {
		t.Error("valid result should have empty summary")
	}
}
