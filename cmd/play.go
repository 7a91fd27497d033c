package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizpath/internal/app"
	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/screen"
	quizscreen "github.com/abhisek/quizpath/internal/screens/session"
	"github.com/abhisek/quizpath/internal/screens/subjects"
)

var playCmd = &cobra.Command{
	Use:   "play [subject]",
	Short: "Start a quiz, skipping the home screen",
	Example: `  quizpath play python
  quizpath play --questions 5 maths`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.Options{
			Initial: func(deps screen.Deps) screen.Screen { return subjects.New(deps) },
		}
		if len(args) == 1 {
			subject := gateway.CanonicalSubject(args[0])
			opts.Initial = func(deps screen.Deps) screen.Screen {
				return quizscreen.New(deps, subject)
			}
		}
		return runApp(cmd, opts)
	},
}
