// Package main provides the CLI entry point for grantquality-go.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/config"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/orgid"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/output"
)

var (
	cfg    *config.Config
	logger = logrus.New()

	outputPath string
	pretty     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "grantquality",
		Short: "Check the quality of 360Giving grant data",
		Long: `grantquality-go runs the 360Giving data quality checks over a grants
dataset and reports what publishers could improve.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(newCheckCmd(), newAggregatesCmd(), newCoverageCmd(), newMessagesCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(config.DefaultEnvFiles...)
	if err != nil {
		return err
	}
	cfg = c
	logger = cfg.Logger(os.Stderr)
	return nil
}

// registry returns the prefix list named by the configuration, or the
// bundled one.
func registry() (*orgid.Registry, error) {
	if cfg.OrgIDPrefixes == "" {
		return orgid.DefaultRegistry(), nil
	}
	r, err := orgid.LoadRegistry(cfg.OrgIDPrefixes)
	if err != nil {
		return nil, errors.Wrap(err, "load organisation identifier prefixes")
	}
	logger.WithField("prefixes", r.Len()).Debug("prefix list loaded")
	return r, nil
}

func writeJSON(v any) error {
	data, err := output.ToJSON(v, pretty)
	if err != nil {
		return errors.Wrap(err, "serialize output")
	}
	return writeOutput(append(data, '\n'))
}

func writeOutput(data []byte) error {
	if outputPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return errors.Wrap(err, "write output")
	}
	logger.WithField("path", outputPath).Info("output written")
	return nil
}
