package main

import (
	"bytes"
	"strings"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/ukaji3/grantquality-go/pkg/grantquality"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/checks"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/output"
)

type checkFlags struct {
	quality          bool
	usefulness       bool
	fields           bool
	cellSourceMap    string
	workbook         string
	fileType         string
	validationErrors string
	schema           string
	codelists        string
	format           string
}

func newCheckCmd() *cobra.Command {
	f := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check [grants.json]",
		Short: "Run the quality checks over a grants dataset",
		Long: `check computes the dataset aggregates, groups the validation errors and
runs the requested test classes. Without --quality or --usefulness the
classes named by GRANTQUALITY_TEST_CLASSES are run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], f)
		},
	}

	cmd.Flags().BoolVar(&f.quality, "quality", false, "Run the quality and accuracy checks")
	cmd.Flags().BoolVar(&f.usefulness, "usefulness", false, "Run the usefulness checks")
	cmd.Flags().BoolVar(&f.fields, "fields", false, "Also run the field presence checks")
	cmd.Flags().StringVar(&f.cellSourceMap, "cell-source-map", "", "Cell source map written by the spreadsheet converter")
	cmd.Flags().StringVar(&f.workbook, "workbook", "", "Original workbook, for the cells around validation errors")
	cmd.Flags().StringVar(&f.fileType, "file-type", "", "Original file type: json, xlsx, csv (default: xlsx with --workbook, else json)")
	cmd.Flags().StringVar(&f.validationErrors, "validation-errors", "", "Validation errors from an external validator")
	cmd.Flags().StringVar(&f.schema, "schema", "", "JSON Schema to validate against (default: GRANTQUALITY_SCHEMA)")
	cmd.Flags().StringVar(&f.codelists, "codelists", "", "Additional codelist values")
	cmd.Flags().StringVar(&f.format, "format", "json", "Output format: json, text")
	return cmd
}

func runCheck(cmd *cobra.Command, inputPath string, f *checkFlags) error {
	if f.format != "json" && f.format != "text" {
		return errors.Errorf("invalid format: %s (must be json or text)", f.format)
	}

	opts := grantquality.DefaultOptions()
	opts.Logger = logger

	classes, err := f.testClasses()
	if err != nil {
		return err
	}
	opts.TestClasses = classes

	opts.FileType, err = f.resolveFileType()
	if err != nil {
		return err
	}

	if opts.Registry, err = registry(); err != nil {
		return err
	}

	data, err := grantquality.LoadDataset(inputPath)
	if err != nil {
		return err
	}
	in := grantquality.Input{Data: data}

	if f.cellSourceMap != "" {
		if opts.SourceMap, err = grantquality.LoadSourceMap(f.cellSourceMap); err != nil {
			return err
		}
	}
	if f.workbook != "" {
		wb, err := grantquality.OpenWorkbook(f.workbook)
		if err != nil {
			return err
		}
		defer wb.Close()
		opts.Workbook = wb
	}
	if f.validationErrors != "" {
		if in.ValidationErrors, err = grantquality.LoadValidationErrors(f.validationErrors); err != nil {
			return err
		}
	}
	schema := f.schema
	if schema == "" {
		schema = cfg.Schema
	}
	if schema != "" && in.ValidationErrors == nil {
		if opts.Validator, err = grantquality.LoadSchema(schema); err != nil {
			return err
		}
	}
	if f.codelists != "" {
		if in.Codelists, err = grantquality.LoadCodelists(f.codelists); err != nil {
			return err
		}
	}

	result, err := grantquality.CommonChecks(cmd.Context(), in, opts)
	if err != nil {
		return errors.Wrap(err, "quality checks failed")
	}

	if f.format == "text" {
		var buf bytes.Buffer
		colored := outputPath == "" && !color.NoColor
		if err := output.NewText(colored).WriteResult(&buf, result); err != nil {
			return err
		}
		return writeOutput(buf.Bytes())
	}
	return writeJSON(result)
}

// testClasses resolves the class flags. --fields adds the field presence
// checks to whichever classes are otherwise selected.
func (f *checkFlags) testClasses() ([]checks.Class, error) {
	var classes []checks.Class
	if f.quality {
		classes = append(classes, checks.QualityAccuracy)
	}
	if f.usefulness {
		classes = append(classes, checks.Usefulness)
	}
	if len(classes) == 0 {
		for _, name := range cfg.TestClasses {
			class, ok := checks.ParseClass(name)
			if !ok {
				return nil, errors.Wrapf(grantquality.ErrUnknownTestClass, "%q", name)
			}
			classes = append(classes, class)
		}
	}
	if f.fields && !containsClass(classes, checks.FieldPresence) {
		classes = append(classes, checks.FieldPresence)
	}
	return classes, nil
}

func containsClass(classes []checks.Class, class checks.Class) bool {
	for _, c := range classes {
		if c == class {
			return true
		}
	}
	return false
}

func (f *checkFlags) resolveFileType() (grantquality.FileType, error) {
	switch strings.ToLower(f.fileType) {
	case "":
		if f.workbook != "" {
			return grantquality.FileTypeXLSX, nil
		}
		return grantquality.FileTypeJSON, nil
	case "json":
		return grantquality.FileTypeJSON, nil
	case "xlsx":
		return grantquality.FileTypeXLSX, nil
	case "csv":
		return grantquality.FileTypeCSV, nil
	default:
		return "", errors.Errorf("invalid file type: %s (must be json, xlsx or csv)", f.fileType)
	}
}
