package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizpath/internal/analytics"
	"github.com/abhisek/quizpath/internal/app"
	"github.com/abhisek/quizpath/internal/config"
	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/logging"
	"github.com/abhisek/quizpath/internal/screen"
	"github.com/abhisek/quizpath/internal/store"
)

// env holds what every command needs: settings, a logger, the local
// store and a gateway that records its calls there.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	repo    store.EventRepo
	gateway gateway.Gateway
}

// openEnv loads config and opens the local store. A store that cannot be
// opened is reported and left nil; quizzes still work without history.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log, nil)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	e := &env{cfg: cfg, logger: logger}
	if dbPath, err := resolveDBPath(cfg); err != nil {
		logger.Warn("resolve DB path", zap.Error(err))
	} else if st, err := store.Open(dbPath); err != nil {
		logger.Warn("open store", zap.String("path", dbPath), zap.Error(err))
		fmt.Fprintln(os.Stderr, "Local history unavailable:", err)
	} else {
		e.store = st
		e.repo = st.EventRepo()
	}

	base := gateway.NewHTTP(gateway.Config{
		BaseURL: cfg.Server.BaseURL,
		APIKey:  cfg.Server.APIKey,
		UserID:  cfg.UserID,
		Timeout: cfg.Server.Timeout,
	})
	e.gateway = gateway.WithLogging(base, logger, e.repo)
	return e, nil
}

func (e *env) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	_ = e.logger.Sync()
}

func (e *env) deps() screen.Deps {
	return screen.Deps{
		Gateway:        e.gateway,
		Repo:           e.repo,
		Analytics:      analytics.NewViewModel(e.gateway, e.logger),
		Logger:         e.logger,
		TotalQuestions: e.cfg.Quiz.TotalQuestions,
		Backend:        backendName(e.cfg.Server.BaseURL),
	}
}

func (e *env) requireStore() (store.EventRepo, error) {
	if e.repo == nil {
		return nil, fmt.Errorf("local database is not available")
	}
	return e.repo, nil
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command, opts app.Options) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	e.logger.Info("starting tui",
		zap.String("server", e.cfg.Server.BaseURL),
		zap.String("user", e.cfg.UserID),
		zap.Bool("history", e.repo != nil))
	return app.Run(e.deps(), opts)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
