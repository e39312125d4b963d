package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"portfolio-assistant/backend/internal/services"
	"portfolio-assistant/backend/pkg/logger"
)

func newAskCmd() *cobra.Command {
	var (
		debug  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, assistant, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			question := strings.Join(args, " ")
			resp := assistant.AskWithDebug(cmd.Context(), services.SurfaceCLI, question)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if debug {
					return enc.Encode(resp)
				}
				return enc.Encode(resp.Response)
			}

			fmt.Fprintln(out, resp.Answer)
			for _, l := range resp.Links {
				fmt.Fprintf(out, "  %s: %s\n", l.Text, l.URL)
			}
			fmt.Fprintf(out, "\nsource: %s  confidence: %.2f\n", resp.Source, resp.Confidence)
			if debug {
				fmt.Fprintf(out, "intent: %s (%.2f)  normalized: %q\n",
					resp.Debug.Intent, resp.Debug.IntentConfidence, resp.Debug.NormalizedQuestion)
				if resp.Reasoning != nil {
					for i, p := range resp.Reasoning.Paths {
						fmt.Fprintf(out, "path %d (%.2f): %s\n", i+1, p.Confidence, strings.Join(p.Explanation, "; "))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "show intent, normalized question and reasoning paths")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the response as JSON")
	return cmd
}
