package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"review360/internal/domain/evaluation"
	"review360/internal/domain/scoring"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// describe folds a scoring error's hint into the message printed by cobra.
func describe(err error) error {
	var scoringErr *scoring.Error
	if errors.As(err, &scoringErr) && scoringErr.Hint != "" {
		return fmt.Errorf("%w (hint: %s)", err, scoringErr.Hint)
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkFormat(format string) error {
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("unknown output format %q (use table or json)", format)
	}
	return nil
}

func one(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func confidenceText(label string) string {
	if label == scoring.ConfidenceLow {
		return color.YellowString(label)
	}
	return label
}

func renderResults(w io.Writer, format string, results evaluation.PeriodResults) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == formatJSON {
		return writeJSON(w, results)
	}

	fmt.Fprintln(w, color.CyanString("Results for %s", results.Period.Name))
	table := newTable(w, "Rank", "Target", "Department", "Overall", "Self", "Peer", "Peers", "Confidence")
	for i, t := range results.Targets {
		table.Append([]string{
			strconv.Itoa(i + 1),
			t.Name,
			t.Department,
			one(t.OverallAvg),
			one(t.SelfScore),
			one(t.PeerAvg),
			strconv.Itoa(t.PeerCount),
			confidenceText(t.ConfidenceLabel),
		})
	}
	table.Render()
	return nil
}

func renderDevelopment(w io.Writer, format string, plan evaluation.DevelopmentPlan) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == formatJSON {
		return writeJSON(w, plan)
	}

	fmt.Fprintln(w, color.CyanString("Development plan for %s (%s)", plan.Score.Name, plan.Period.Name))
	table := newTable(w, "Category", "Self", "Peer", "Gap")
	for _, g := range plan.Gaps {
		gap := one(g.Diff)
		if g.Diff > 0 {
			gap = color.YellowString("+" + gap)
		}
		table.Append([]string{g.Name, one(g.Self), one(g.Peer), gap})
	}
	table.Render()

	if len(plan.Score.Swot.Peer.Strengths) > 0 {
		names := make([]string, 0, len(plan.Score.Swot.Peer.Strengths))
		for _, s := range plan.Score.Swot.Peer.Strengths {
			names = append(names, s.Name)
		}
		fmt.Fprintf(w, "%s %s\n", color.GreenString("Strengths:"), strings.Join(names, ", "))
	}
	for _, step := range plan.ActionPlan {
		fmt.Fprintf(w, "  - %s\n", step)
	}
	return nil
}

func renderCompensation(w io.Writer, format string, result evaluation.CompensationResult) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == formatJSON {
		return writeJSON(w, result)
	}

	fmt.Fprintln(w, color.CyanString("Raises for %s, %s pool, %s%% to %s%%", result.Period.Name, result.Pool, one(result.MinPct), one(result.MaxPct)))
	table := newTable(w, "Target", "Pool", "Overall", "Evaluators", "Confidence", "Normalized", "Raise %")
	for _, row := range result.Rows {
		evaluators := strconv.Itoa(row.EvaluatorCount)
		if row.EvaluatorCount < result.MinHighConfidence {
			evaluators = color.YellowString(evaluators)
		}
		table.Append([]string{
			row.Name,
			row.PoolKey,
			one(row.OverallAvg),
			evaluators,
			strconv.FormatFloat(row.Confidence, 'f', 2, 64),
			strconv.FormatFloat(row.NormalizedScore, 'f', 2, 64),
			one(row.RecommendedPct),
		})
	}
	table.Render()
	return nil
}

func renderCoefficients(w io.Writer, format string, c scoring.Coefficients) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == formatJSON {
		return writeJSON(w, c)
	}

	state := "live"
	if c.Snapshotted {
		state = color.GreenString("snapshotted")
	}
	fmt.Fprintf(w, "Period %s coefficients: %s\n", c.PeriodID, state)
	table := newTable(w, "Level", "Weight")
	for _, level := range scoring.Levels {
		table.Append([]string{level, strconv.FormatFloat(c.EvaluatorWeight(level), 'f', 2, 64)})
	}
	table.Render()
	fmt.Fprintf(w, "High confidence from %d evaluators\n", c.Confidence.MinHighConfidenceEvaluatorCount)
	return nil
}
