package grantquality

import (
	"encoding/json"
	"time"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/aggregates"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/checks"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/models"
)

// CommonErrorTypes are the validators whose errors are explained to
// publishers in detail.
var CommonErrorTypes = []string{"uri", "date-time", "required", "enum", "number", "string", "minimum"}

// ClassResult is the outcome of one test class.
type ClassResult struct {
	Class checks.Class
	// Errored is set when the class could not complete; Checks is then nil.
	Errored bool
	Checks  []models.CheckResult
}

// Count is the number of failed checks.
func (c ClassResult) Count() int { return len(c.Checks) }

// Result is everything a run found out about a dataset.
type Result struct {
	RunID       string
	GeneratedAt time.Time
	FileType    FileType

	Aggregates *aggregates.Aggregates

	ValidationErrors         map[string][]GroupedError
	ValidationErrorsCount    int
	CommonErrorTypes         []string
	AdditionalOpenCodelist   CodelistValues
	AdditionalClosedCodelist CodelistValues

	// ValidationAndClosedCodelistErrorsCount adds the closed codelist
	// values to the validation errors, since both make the data invalid.
	ValidationAndClosedCodelistErrorsCount int

	// Classes are in run order.
	Classes []ClassResult
}

// Class returns the outcome of class, if it was run.
func (r *Result) Class(class checks.Class) (ClassResult, bool) {
	for _, c := range r.Classes {
		if c.Class == class {
			return c, true
		}
	}
	return ClassResult{}, false
}

// MarshalJSON writes the flat key layout used by report templates: each
// class contributes {class}_errored, {class}_checks and
// {class}_checks_count.
func (r *Result) MarshalJSON() ([]byte, error) {
	validationErrors := r.ValidationErrors
	if validationErrors == nil {
		validationErrors = map[string][]GroupedError{}
	}
	out := map[string]any{
		"run_id":                            r.RunID,
		"generated_at":                      r.GeneratedAt.UTC().Format(time.RFC3339),
		"file_type":                         r.FileType,
		"grants_aggregates":                 r.Aggregates,
		"validation_errors_grouped":         validationErrors,
		"validation_errors_count":           r.ValidationErrorsCount,
		"common_error_types":                r.CommonErrorTypes,
		"additional_open_codelist_values":   nonNil(r.AdditionalOpenCodelist),
		"additional_closed_codelist_values": nonNil(r.AdditionalClosedCodelist),
	}
	out["validation_and_closed_codelist_errors_count"] = r.ValidationAndClosedCodelistErrorsCount
	for _, c := range r.Classes {
		prefix := string(c.Class)
		out[prefix+"_errored"] = c.Errored
		out[prefix+"_checks"] = c.Checks
		out[prefix+"_checks_count"] = c.Count()
	}
	return json.Marshal(out)
}

func nonNil(c CodelistValues) CodelistValues {
	if c == nil {
		return CodelistValues{}
	}
	return c
}
