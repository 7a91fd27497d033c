package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizpath/internal/gateway"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List quizzes completed on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		subject, _ := cmd.Flags().GetString("subject")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		repo, err := e.requireStore()
		if err != nil {
			return err
		}

		results, err := repo.RecentQuizResults(commandContext(cmd), gateway.CanonicalSubject(subject), limit)
		if err != nil {
			return fmt.Errorf("query quiz results: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No quizzes recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-10s  %7s  %8s  %8s\n",
			"ID", "Finished", "Subject", "Score", "Accuracy", "Time")
		fmt.Fprintln(out, strings.Repeat("─", 64))
		for _, r := range results {
			fmt.Fprintf(out, "%-5d  %-16s  %-10s  %3d/%-3d  %7d%%  %8s\n",
				r.ID,
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				r.Subject,
				r.CorrectAnswers, r.TotalAnswered,
				r.AccuracyPercent,
				formatSeconds(r.DurationSecs),
			)
		}
		return nil
	},
}

func formatSeconds(secs int) string {
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
	historyCmd.Flags().StringP("subject", "s", "", "Only show one subject")
}
