package grantquality

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/aggregates"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/checks"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/models"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/validation"
)

// Input is the data of one run.
type Input struct {
	// Data is the dataset, an object with a "grants" array.
	Data jsonvalue.Value
	// ValidationErrors come from an external validator. When nil and
	// Options.Validator is set, the data is validated during the run.
	ValidationErrors validation.List
	// Codelists are the values found outside their fields' codelists.
	Codelists CodelistValues
}

// CommonChecks computes the aggregates, groups the validation errors and
// runs every requested test class over in.Data.
//
// A class that fails is reported as errored and the remaining classes
// still run. Unknown class names and unreadable validation errors fail the
// whole run, as does cancelling ctx.
func CommonChecks(ctx context.Context, in Input, opts Options) (*Result, error) {
	classes := opts.testClasses()
	for _, class := range classes {
		if _, ok := checks.KindsFor(class); !ok {
			return nil, errors.Wrapf(ErrUnknownTestClass, "%q", class)
		}
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	result := &Result{
		RunID:            uuid.NewString(),
		GeneratedAt:      now,
		FileType:         opts.fileType(),
		CommonErrorTypes: CommonErrorTypes,
	}
	log := opts.logger().WithFields(logrus.Fields{"run_id": result.RunID})

	registry := opts.registry()
	grants, _ := aggregates.Grants(in.Data)
	result.Aggregates = aggregates.Compute(grants, registry)
	log.WithField("grants", len(grants)).Debug("aggregates computed")

	validationErrors := in.ValidationErrors
	if validationErrors == nil && opts.Validator != nil {
		var err error
		validationErrors, err = opts.Validator.Validate(in.Data, opts.SourceMap)
		if err != nil {
			return nil, errors.Wrap(err, "schema validation")
		}
		log.WithField("errors", len(validationErrors)).Debug("data validated")
	}
	grouped, err := GroupValidationErrors(validationErrors, result.FileType, opts.Workbook)
	if err != nil {
		return nil, err
	}
	result.ValidationErrors = grouped
	result.ValidationErrorsCount = ValueCount(validationErrors)

	for _, class := range classes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		classLog := log.WithField("test_class", class)
		env := checks.NewEnv(grants, result.Aggregates, registry, now)
		kinds, _ := checks.KindsFor(class)

		found, err := runClass(in.Data, kinds, env, opts)
		if err != nil {
			classLog.WithError(err).Error("test class errored")
			result.Classes = append(result.Classes, ClassResult{Class: class, Errored: true})
			continue
		}
		classLog.WithField("failed_checks", len(found)).Debug("test class finished")
		result.Classes = append(result.Classes, ClassResult{Class: class, Checks: found})
	}

	result.AdditionalOpenCodelist, result.AdditionalClosedCodelist = in.Codelists.Split()
	result.ValidationAndClosedCodelistErrorsCount = result.ValidationErrorsCount + result.AdditionalClosedCodelist.ValueCount()
	return result, nil
}

// runChecks is replaced in tests.
var runChecks = checks.Run

// runClass runs one class, turning a panic that escapes the runner into an
// error.
func runClass(data jsonvalue.Value, kinds []*checks.Kind, env *checks.Env, opts Options) (found []models.CheckResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			found = nil
			err = errors.Errorf("test class panicked: %v", r)
		}
	}()
	return runChecks(data, opts.SourceMap, kinds, env)
}
