package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/moltapp/reasonscore/internal/config"
	"github.com/moltapp/reasonscore/internal/evaluator"
	httpiface "github.com/moltapp/reasonscore/internal/interfaces/http"
	"github.com/moltapp/reasonscore/internal/persistence"
	"github.com/moltapp/reasonscore/internal/persistence/postgres"
	"github.com/moltapp/reasonscore/internal/persistence/redisstore"
	"github.com/moltapp/reasonscore/internal/registry"
)

const (
	appName = "reasonscore"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Reasoning quality scoring for trading agents",
		Version: version,
		Long: `reasonscore evaluates the free-text reasoning behind trading decisions:
it extracts factual claims, verifies them against market evidence, scores
sentiment coherence and structural quality, flags cognitive biases, and
maintains running per-agent composite scores.`,
	}
	rootCmd.AddCommand(newServeCmd(), newScoreCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the evaluation HTTP service",
		RunE:  runServe,
	}
	cmd.Flags().String("config", "", "Path to YAML configuration file")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	book := registry.NewScoreBook(reg, cfg.Scoring.Alpha)
	eval, err := evaluator.New(reg, book,
		evaluator.WithHistorySize(cfg.Scoring.HistorySize),
		evaluator.WithDefaultVersion(cfg.Scoring.DefaultVersion))
	if err != nil {
		return err
	}

	store, cleanup, err := buildStore(cmd.Context(), cfg.Store)
	if err != nil {
		return err
	}
	defer cleanup()

	handlers := httpiface.NewHandlers(eval, reg, book, store)
	server, err := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		RateLimitRPS: cfg.Server.RateLimitRPS,
		RateBurst:    cfg.Server.RateBurst,
	}, handlers)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [request.json]",
		Short: "Evaluate one decision from a JSON file and print the report",
		Args:  cobra.ExactArgs(1),
		RunE:  runScore,
	}
	cmd.Flags().String("config", "", "Path to YAML configuration file")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var req evaluator.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	book := registry.NewScoreBook(reg, cfg.Scoring.Alpha)
	eval, err := evaluator.New(reg, book, evaluator.WithDefaultVersion(cfg.Scoring.DefaultVersion))
	if err != nil {
		return err
	}

	report, err := eval.Evaluate(req)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildRegistry loads configured weight tables, falling back to the built-in
// versions when none are configured.
func buildRegistry(cfg *config.Config) (*registry.Registry, error) {
	reg := evaluator.DefaultRegistry()
	if len(cfg.Scoring.Versions) > 0 {
		reg = registry.NewRegistry()
		for name, weights := range cfg.Scoring.Versions {
			if err := reg.Register(name, weights); err != nil {
				return nil, fmt.Errorf("register version %s: %w", name, err)
			}
		}
	}
	// The default must resolve at startup, not on the first request.
	if _, err := reg.Weights(cfg.Scoring.DefaultVersion); err != nil {
		return nil, fmt.Errorf("scoring.default_version: %w", err)
	}
	return reg, nil
}

// buildStore assembles the optional score sinks, each behind a circuit
// breaker. A nil store disables persistence entirely.
func buildStore(ctx context.Context, cfg config.StoreConfig) (persistence.ScoreStore, func(), error) {
	var sinks []persistence.ScoreStore
	var closers []func()

	if cfg.PostgresDSN != "" {
		repo, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, persistence.NewGuardedStore("postgres", repo))
		closers = append(closers, func() { repo.Close() })
	}
	if cfg.RedisAddr != "" {
		cache, err := redisstore.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, persistence.NewGuardedStore("redis", cache))
		closers = append(closers, func() { cache.Close() })
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	if len(sinks) == 0 {
		return nil, cleanup, nil
	}
	if len(sinks) == 1 {
		return sinks[0], cleanup, nil
	}
	return persistence.NewFanoutStore(sinks...), cleanup, nil
}
