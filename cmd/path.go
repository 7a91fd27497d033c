package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizpath/internal/analytics"
	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/mastery"
)

var pathCmd = &cobra.Command{
	Use:   "path [subject]",
	Short: "Print your personal learning path",
	Long:  "Print weak areas, study advice and resources for one subject, or for every default subject.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := commandContext(cmd)
		out := cmd.OutOrStdout()

		if last, err := e.gateway.LastQuiz(ctx); err == nil && last.HasData {
			fmt.Fprintf(out, "Last quiz: %s  %d/%d correct  %.0f%%\n\n",
				last.Subject, last.CorrectAnswers, last.TotalQuestions, last.Accuracy)
		}

		subjects := gateway.DefaultSubjects()
		if len(args) == 1 {
			subjects = []string{gateway.CanonicalSubject(args[0])}
		}

		vm := analytics.NewViewModel(e.gateway, e.logger)
		for i, subject := range subjects {
			if i > 0 {
				fmt.Fprintln(out)
			}
			recs, err := vm.Recommendations(ctx, subject)
			if err != nil {
				return fmt.Errorf("load %s recommendations: %w", subject, err)
			}
			printRecommendations(out, subject, recs)
		}
		return nil
	},
}

func printRecommendations(out io.Writer, subject string, r *gateway.Recommendations) {
	fmt.Fprintln(out, subject)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	if !r.HasData {
		fmt.Fprintf(out, "Take a %s quiz to get a personal learning path.\n", subject)
	} else {
		fmt.Fprintf(out, "Quizzes: %d  Questions: %d\n", r.TotalQuizzes, r.TotalQuestions)
		if len(r.WeakAreas) == 0 {
			fmt.Fprintln(out, "No weak areas. Keep it up!")
		}
		for _, w := range r.WeakAreas {
			fmt.Fprintf(out, "  %-24s  mastery %3d%%  accuracy %3.0f%%  %s\n",
				truncate(w.Topic, 24), mastery.Percent(w.Mastery), w.Accuracy, mastery.Classify(w.Mastery))
		}
		if advice := strings.TrimSpace(r.AIRecommendations); advice != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, advice)
		}
	}
	if len(r.LearningResources) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Resources")
		for _, res := range r.LearningResources {
			fmt.Fprintf(out, "  • %s  %s\n", res.Title, res.URL)
		}
	}
}
