package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-assistant/backend/internal/eval"
	"portfolio-assistant/backend/pkg/logger"
)

func newEvalCmd() *cobra.Command {
	var (
		file        string
		filter      string
		concurrency int
		strict      bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Run the conformance questions and report which tier answered each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, assistant, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			suite, err := loadSuite(file)
			if err != nil {
				return err
			}
			suite = suite.Filter(filter)

			report, err := eval.NewRunner(assistant, concurrency).Run(cmd.Context(), suite)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				err = enc.Encode(report)
			} else {
				err = report.WriteText(out)
			}
			if err != nil {
				return err
			}

			if strict && !report.AllPassed() {
				return fmt.Errorf("%d of %d cases failed", report.Failed, len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "suite YAML (default: embedded conformance suite)")
	cmd.Flags().StringVar(&filter, "filter", "", "only run cases whose name or category contains this text")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "cases answered in parallel")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any case fails")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func loadSuite(file string) (*eval.Suite, error) {
	if file == "" {
		return eval.Load()
	}
	return eval.LoadFile(file)
}
