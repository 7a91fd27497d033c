package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizpath/internal/llm"
	"github.com/abhisek/quizpath/internal/logging"
	"github.com/abhisek/quizpath/internal/mockserver"
)

var serveMockCmd = &cobra.Command{
	Use:   "serve-mock",
	Short: "Run an offline quiz server with a built-in question bank",
	Long: "Run a local quiz server that speaks the same HTTP API as the real backend.\n" +
		"Study advice comes from an LLM when QUIZPATH_LLM_PROVIDER or a vendor API key is set,\n" +
		"and from fixed templates otherwise. Prometheus metrics are served at /metrics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		bank, err := loadBank(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mcfg := mockserver.DefaultConfig()
		mcfg.Addr = cfg.Mock.Addr
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			mcfg.Addr = addr
		}
		mcfg.APIKey = cfg.Server.APIKey
		mcfg.TotalQuestions = cfg.Quiz.TotalQuestions
		mcfg.RateLimit = cfg.Mock.RateLimit
		mcfg.Burst = cfg.Mock.Burst
		if cmd.Flags().Changed("seed") {
			mcfg.Seed, _ = cmd.Flags().GetUint64("seed")
		}

		srv := mockserver.New(mcfg, bank, newAdvisor(ctx, logger), logger)
		fmt.Fprintf(cmd.OutOrStdout(), "Mock quiz server listening on http://%s\n", mcfg.Addr)
		return srv.ListenAndServe(ctx)
	},
}

func loadBank(cmd *cobra.Command) (*mockserver.Bank, error) {
	path, _ := cmd.Flags().GetString("bank")
	if path == "" {
		return mockserver.DefaultBank()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	bank, err := mockserver.ParseBank(data)
	if err != nil {
		return nil, fmt.Errorf("parse question bank %s: %w", path, err)
	}
	return bank, nil
}

// newAdvisor picks the LLM advisor when a real provider is configured.
func newAdvisor(ctx context.Context, logger *zap.Logger) mockserver.Advisor {
	cfg := llm.ConfigFromEnv()
	if cfg.Provider == "mock" {
		logger.Info("using template advisor")
		return mockserver.TemplateAdvisor{}
	}
	provider, err := llm.NewProvider(ctx, cfg, logger)
	if err != nil {
		logger.Warn("LLM provider not configured, using template advisor", zap.Error(err))
		return mockserver.TemplateAdvisor{}
	}
	logger.Info("using LLM advisor",
		zap.String("provider", cfg.Provider),
		zap.String("model", provider.ModelID()))
	return mockserver.NewLLMAdvisor(provider, logger)
}

func init() {
	serveMockCmd.Flags().String("addr", "", "Listen address (overrides mock.addr)")
	serveMockCmd.Flags().String("bank", "", "YAML question bank to serve instead of the built-in one")
	serveMockCmd.Flags().Uint64("seed", 0, "Seed for reproducible question order")
}
