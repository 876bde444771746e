package main

import (
	"bytes"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/ukaji3/grantquality-go/pkg/grantquality"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/aggregates"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/checks"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/coverage"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/models"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/output"
)

func newAggregatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aggregates [grants.json]",
		Short: "Print the dataset statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := grantquality.LoadDataset(args[0])
			if err != nil {
				return err
			}
			r, err := registry()
			if err != nil {
				return err
			}
			agg := aggregates.FromDataset(data, r)
			logger.WithField("grants", agg.Count).Debug("aggregates computed")
			return writeJSON(agg.Summary())
		},
	}
}

func newCoverageCmd() *cobra.Command {
	var schema string
	cmd := &cobra.Command{
		Use:   "coverage [grants.json]",
		Short: "Count the fields used by a grants dataset",
		Long: `coverage counts every field path of the dataset and the grants that use
it. With a schema, each path is also marked as standard or not.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := grantquality.LoadDataset(args[0])
			if err != nil {
				return err
			}
			if schema == "" {
				schema = cfg.Schema
			}
			var fields map[string]bool
			if schema != "" {
				v, err := grantquality.LoadSchema(schema)
				if err != nil {
					return err
				}
				fields = v.SchemaFields()
			}
			report := coverage.Compute(data, fields)
			logger.WithField("paths", len(report)).Debug("coverage computed")
			return writeJSON(report)
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "", "JSON Schema listing the standard fields (default: GRANTQUALITY_SCHEMA)")
	return cmd
}

func newMessagesCmd() *cobra.Command {
	var (
		className string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Print a sample message for every check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			classes := checks.Classes()
			if className != "" {
				class, ok := checks.ParseClass(className)
				if !ok {
					return errors.Wrapf(grantquality.ErrUnknownTestClass, "%q", className)
				}
				classes = []checks.Class{class}
			}

			samples := make(map[checks.Class][]models.CheckMessage, len(classes))
			for _, class := range classes {
				samples[class], _ = checks.SampleMessages(class)
			}

			switch format {
			case "json":
				return writeJSON(samples)
			case "text":
				var buf bytes.Buffer
				text := output.NewText(outputPath == "" && !color.NoColor)
				for _, class := range classes {
					if err := text.WriteMessages(&buf, class, samples[class]); err != nil {
						return err
					}
				}
				return writeOutput(buf.Bytes())
			default:
				return errors.Errorf("invalid format: %s (must be json or text)", format)
			}
		},
	}
	cmd.Flags().StringVar(&className, "class", "", "Only this test class: quality_accuracy, usefulness, fields")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: json, text")
	return cmd
}
