// Package grantquality runs the 360Giving data quality checks over a
// grants dataset and assembles the result shown to publishers.
package grantquality

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/checks"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/orgid"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/spreadsheet"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/validation"
)

// FileType is the format the dataset was published in.
type FileType string

const (
	// FileTypeJSON is data published as JSON; there are no cells to point at.
	FileTypeJSON FileType = "json"
	// FileTypeXLSX is a workbook converted to JSON.
	FileTypeXLSX FileType = "xlsx"
	// FileTypeCSV is a single sheet converted to JSON.
	FileTypeCSV FileType = "csv"
)

// Spreadsheet reports whether findings can be traced back to cells.
func (t FileType) Spreadsheet() bool {
	return t == FileTypeXLSX || t == FileTypeCSV
}

// Options configures a run.
type Options struct {
	// TestClasses lists the check classes to run, in order.
	// If empty, checks.DefaultClasses are run.
	TestClasses []checks.Class
	// FileType is the original format of the data. If empty, FileTypeJSON.
	FileType FileType
	// SourceMap maps JSON pointers to the cells they came from.
	SourceMap spreadsheet.SourceMap
	// Workbook supplies the context cells of validation error tables.
	// Leave nil when the original workbook is not available.
	Workbook spreadsheet.Workbook
	// Registry is the organisation identifier prefix list.
	// If nil, orgid.DefaultRegistry() is used.
	Registry *orgid.Registry
	// Validator, when set, validates the data if the input carries no
	// validation errors of its own.
	Validator *validation.Validator
	// Now is the reference time of the date checks. If zero, the time the
	// run starts.
	Now time.Time
	// Logger receives progress and failure logs. If nil, nothing is logged.
	Logger *logrus.Logger
}

// DefaultOptions returns the options of a plain JSON run.
func DefaultOptions() Options {
	return Options{
		FileType: FileTypeJSON,
	}
}

func (o Options) testClasses() []checks.Class {
	if len(o.TestClasses) > 0 {
		return o.TestClasses
	}
	return checks.DefaultClasses
}

func (o Options) fileType() FileType {
	if o.FileType == "" {
		return FileTypeJSON
	}
	return o.FileType
}

func (o Options) registry() *orgid.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return orgid.DefaultRegistry()
}

func (o Options) logger() *logrus.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}
