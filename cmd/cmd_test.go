package cmd

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizpath/internal/config"
	"github.com/abhisek/quizpath/internal/store"
)

func TestAggregateRequests(t *testing.T) {
	events := []store.RequestEvent{
		{RequestEventData: store.RequestEventData{Op: "submit_answer", LatencyMs: 40, Success: true}},
		{RequestEventData: store.RequestEventData{Op: "next_question", LatencyMs: 10, Success: true}},
		{RequestEventData: store.RequestEventData{Op: "submit_answer", LatencyMs: 80, Success: false}},
	}

	stats := aggregateRequests(events)
	require.Len(t, stats, 2)
	assert.Equal(t, "next_question", stats[0].Op)
	assert.Equal(t, opStats{Op: "submit_answer", Calls: 2, Failures: 1, TotalMs: 120, MaxMs: 80}, stats[1])
	assert.Equal(t, int64(60), stats[1].avgMs())
	assert.Equal(t, int64(0), opStats{}.avgMs())
}

func TestBackendName(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8000", backendName("http://127.0.0.1:8000"))
	assert.Equal(t, "quiz.example.com", backendName("https://quiz.example.com/api"))
	assert.Equal(t, "not a url", backendName("not a url"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "héll…", truncate("héllo wörld", 5))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "42s", formatSeconds(42))
	assert.Equal(t, "2m05s", formatSeconds(125))
}

func TestResolveDBPathPrefersConfig(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "quiz.db")
	got, err := resolveDBPath(&config.Config{DB: p})
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, rootCmd.ParseFlags([]string{"--questions", "5", "--server", "http://quiz.local:9000"}))
	t.Cleanup(func() {
		_ = rootCmd.PersistentFlags().Set("questions", "0")
		_ = rootCmd.PersistentFlags().Set("server", "")
		rootCmd.PersistentFlags().Lookup("questions").Changed = false
		rootCmd.PersistentFlags().Lookup("server").Changed = false
	})

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Quiz.TotalQuestions)
	assert.Equal(t, "http://quiz.local:9000", cfg.Server.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
}

func TestResetRequiresConfirmation(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quiz.db")
	rootCmd.SetArgs([]string{"reset", "--db", db})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.PersistentFlags().Lookup("db").Changed = false
		_ = rootCmd.PersistentFlags().Set("db", "")
		rootCmd.PersistentFlags().Lookup("db").Changed = false
	})
	rootCmd.SilenceErrors = true
	defer func() { rootCmd.SilenceErrors = false }()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestVersionShowsConfiguredServer(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("QUIZPATH_SERVER_BASE_URL", "http://quiz.example.com:9000")
	t.Setenv("QUIZPATH_USER_ID", "ada")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "quizpath ")
	assert.Contains(t, out.String(), "server: http://quiz.example.com:9000")
	assert.Contains(t, out.String(), "ada")
}
