package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/catalog.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)

	supported *semver.Constraints
)

func init() {
	c, err := semver.NewConstraint(SupportedFormatVersions)
	if err != nil {
		panic(fmt.Sprintf("invalid format version constraint %q: %v", SupportedFormatVersions, err))
	}
	supported = c
}

// ValidationResult contains the outcome of a manifest validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single validation error.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/items/0/id")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed, or "format_version"
}

// maxSummaryIssues bounds the issues folded into Summary.
const maxSummaryIssues = 3

// Summary joins the first few issues into one line.
func (r *ValidationResult) Summary() string {
	if r == nil || r.Valid {
		return ""
	}
	var parts []string
	for i, issue := range r.Issues {
		if i == maxSummaryIssues {
			parts = append(parts, fmt.Sprintf("and %d more", len(r.Issues)-maxSummaryIssues))
			break
		}
		if issue.Path != "" {
			parts = append(parts, issue.Path+": "+issue.Message)
		} else {
			parts = append(parts, issue.Message)
		}
	}
	return strings.Join(parts, "; ")
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("catalog.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("catalog.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks manifest data of the given format against the schema and
// the supported format versions. The error return is for decoding or schema
// compilation failures; validation problems are reported as issues.
func Validate(data []byte, format Format) (*ValidationResult, error) {
	doc, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}
	return validateDoc(doc)
}

// ValidateFile reads a file and validates it.
func ValidateFile(path string) (*ValidationResult, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported manifest extension in %s", path)
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data, format)
}

func validateDoc(doc interface{}) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	var issues []ValidationIssue
	if err := schema.Validate(inst); err != nil {
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		issues = append(issues, extractIssues(validationErr)...)
	}
	if issue, ok := checkFormatVersion(doc); !ok {
		issues = append(issues, issue)
	}

	if len(issues) == 0 {
		return &ValidationResult{Valid: true}, nil
	}
	return &ValidationResult{Valid: false, Issues: issues}, nil
}

// checkFormatVersion enforces SupportedFormatVersions for the object
// layout. Missing versions mean DefaultFormatVersion.
func checkFormatVersion(doc interface{}) (ValidationIssue, bool) {
	m, ok := doc.(map[string]interface{})
	if !ok {
		return ValidationIssue{}, true
	}
	raw, ok := m["format_version"].(string)
	if !ok || raw == "" {
		raw = DefaultFormatVersion
	}

	v, err := semver.NewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return ValidationIssue{
			Path:    "/format_version",
			Message: fmt.Sprintf("%q is not a semantic version", raw),
			Keyword: "format_version",
		}, false
	}
	if !supported.Check(v) {
		return ValidationIssue{
			Path:    "/format_version",
			Message: fmt.Sprintf("format version %s is not supported (need %s)", v, SupportedFormatVersions),
			Keyword: "format_version",
		}, false
	}
	return ValidationIssue{}, true
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
// oneOf branches are walked so property-level errors surface instead of a
// bare "oneOf failed".
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		msg := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Container keywords carry no useful detail.
		if keyword == "oneOf" || keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

// deduplicateIssues removes duplicate issues (same path + keyword + message).
func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
