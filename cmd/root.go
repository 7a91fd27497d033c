package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizpath/internal/app"
	"github.com/abhisek/quizpath/internal/config"
	"github.com/abhisek/quizpath/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizpath",
	Short: "Adaptive quizzes in your terminal",
	Long: "QuizPath runs adaptive Maths, Science and Python quizzes against a quiz server,\n" +
		"tracks your mastery per subject and suggests what to study next.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.Options{})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// flagKeys maps persistent flags to their config keys.
var flagKeys = map[string]string{
	"db":        "db",
	"server":    "server.base_url",
	"api-key":   "server.api_key",
	"user":      "user_id",
	"log-level": "log.level",
	"questions": "quiz.total_questions",
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/quizpath/config.yaml)")
	f.String("db", "", "Path to SQLite database file (overrides QUIZPATH_DB env var)")
	f.String("server", "", "Quiz server base URL, e.g. http://127.0.0.1:8000")
	f.String("api-key", "", "API key sent to the quiz server")
	f.String("user", "", "Learner ID used for analytics and recommendations")
	f.String("log-level", "", "Log level: debug, info, warn or error")
	f.Int("questions", 0, "Questions per quiz")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(subjectsCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(serveMockCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig merges defaults, the config file, QUIZPATH_* variables and
// any flags the user set, in increasing priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	for name, key := range flagKeys {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			if err := v.BindPFlag(key, fl); err != nil {
				return nil, fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}
	path, _ := cmd.Flags().GetString("config")
	return config.Load(v, path)
}

// resolveDBPath returns the database path from --db or the db setting
// (highest priority), then QUIZPATH_DB env var, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// backendName is the host shown in the TUI header.
func backendName(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}
