package eval

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolio-assistant/backend/internal/agent"
	"portfolio-assistant/backend/internal/services"
	"portfolio-assistant/backend/pkg/logger"
)

const defaultConcurrency = 4

// Result is the outcome of one case
type Result struct {
	Case        Case         `json:"case"`
	Source      agent.Source `json:"source"`
	Intent      string       `json:"intent"`
	Confidence  float64      `json:"confidence"`
	Answer      string       `json:"answer"`
	Passed      bool         `json:"passed"`
	IntentMatch bool         `json:"intent_match"`
}

// Report collects results in suite order
type Report struct {
	Results []Result `json:"results"`
	Passed  int      `json:"passed"`
	Failed  int      `json:"failed"`
}

// Runner asks every case through an assistant
type Runner struct {
	assistant   *services.Assistant
	concurrency int
	logger      *zap.Logger
}

// NewRunner creates a runner. concurrency <= 0 uses a small default.
func NewRunner(assistant *services.Assistant, concurrency int) *Runner {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Runner{
		assistant:   assistant,
		concurrency: concurrency,
		logger:      logger.Get(),
	}
}

// Run answers every case. A case passes when the answer's source matches
// the expected source.
func (r *Runner) Run(ctx context.Context, suite *Suite) (*Report, error) {
	results := make([]Result, len(suite.Cases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, c := range suite.Cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.runCase(ctx, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("eval interrupted: %w", err)
	}

	report := &Report{Results: results}
	for _, res := range results {
		if res.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
	}

	r.logger.Info("Eval finished",
		zap.Int("cases", len(results)),
		zap.Int("passed", report.Passed),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (r *Runner) runCase(ctx context.Context, c Case) Result {
	resp := r.assistant.AskWithDebug(ctx, services.SurfaceCLI, c.Question)
	res := Result{
		Case:       c,
		Source:     resp.Source,
		Intent:     string(resp.Debug.Intent),
		Confidence: resp.Confidence,
		Answer:     resp.Answer,
		Passed:     resp.Source == c.ExpectedSource,
	}
	res.IntentMatch = c.ExpectedIntent == "" || c.ExpectedIntent == res.Intent

	if !res.Passed {
		r.logger.Debug("Eval case diverged",
			zap.String("case", c.Name),
			zap.String("expected_source", string(c.ExpectedSource)),
			zap.String("source", string(res.Source)),
		)
	}
	return res
}

// AllPassed reports whether every case passed
func (rep *Report) AllPassed() bool {
	return rep.Failed == 0
}

// WriteText prints one aligned row per case and a summary line
func (rep *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tRESULT\tSOURCE\tEXPECTED\tINTENT\tEXPECTED INTENT\tCONFIDENCE")
	for _, res := range rep.Results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}
		expectedIntent := res.Case.ExpectedIntent
		if expectedIntent == "" {
			expectedIntent = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			res.Case.Name, status, res.Source, res.Case.ExpectedSource,
			res.Intent, expectedIntent, res.Confidence)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", rep.Passed, rep.Failed, len(rep.Results))
	return err
}
