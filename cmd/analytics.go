package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizpath/internal/analytics"
	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/screens/dashboard"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics <subject>",
	Short: "Print mastery, accuracy and topic breakdown for a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		subject := gateway.CanonicalSubject(args[0])
		vm := analytics.NewViewModel(e.gateway, e.logger)
		panel, err := vm.Select(commandContext(cmd), subject)
		out := cmd.OutOrStdout()
		switch {
		case errors.Is(err, analytics.ErrNoData):
			fmt.Fprintf(out, "No %s quizzes yet. Run `quizpath play %s` to take one.\n",
				subject, gateway.RouteSegment(subject))
			return nil
		case err != nil:
			return fmt.Errorf("load %s analytics: %w", subject, err)
		}
		printPanel(out, subject, panel)
		return nil
	},
}

func printPanel(out io.Writer, subject string, p analytics.Panel) {
	fmt.Fprintln(out, subject)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintf(out, "Questions:  %d\n", p.TotalQuestions)
	fmt.Fprintf(out, "Correct:    %d\n", p.CorrectAnswers)
	fmt.Fprintf(out, "Accuracy:   %d%%\n", p.AccuracyPercent)
	fmt.Fprintf(out, "Mastery:    %d%% (%s)\n", p.MasteryPercent, p.Tier)
	if len(p.Growth) > 0 {
		fmt.Fprintf(out, "Growth:     %s\n", dashboard.Sparkline(p.Growth, 40))
	}

	if len(p.Topics) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-24s  %8s  %7s  %8s\n", "Topic", "Answered", "Correct", "Accuracy")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, t := range p.Topics {
			fmt.Fprintf(out, "%-24s  %8d  %7d  %7d%%\n",
				truncate(t.Topic, 24), t.Answered, t.Correct, t.AccuracyPercent)
		}
	}

	if n := len(p.History); n > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Recent questions")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, h := range p.History[max(0, n-5):] {
			mark := "✓"
			if !h.IsCorrect {
				mark = "✗"
			}
			fmt.Fprintf(out, "%s  %-10s  %s\n", mark, h.Difficulty, truncate(h.Question, 44))
		}
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
