package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List the subjects offered by the quiz server",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		subjects, err := e.gateway.ListSubjects(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("list subjects: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(subjects) == 0 {
			fmt.Fprintln(out, "The server offers no subjects.")
			return nil
		}
		fmt.Fprintf(out, "%-12s  %9s  %s\n", "Subject", "Questions", "Topics")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, s := range subjects {
			fmt.Fprintf(out, "%-12s  %9d  %s\n", s.Subject, s.QuestionCount, strings.Join(s.Topics, ", "))
		}
		return nil
	},
}
