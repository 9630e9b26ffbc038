package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/iho/ledgerstream/internal/adapter/csvio"
	"github.com/iho/ledgerstream/internal/adapter/repository/memory"
	"github.com/iho/ledgerstream/internal/domain"
	"github.com/iho/ledgerstream/internal/infrastructure/config"
	"github.com/iho/ledgerstream/internal/infrastructure/logger"
	"github.com/iho/ledgerstream/internal/infrastructure/metrics"
	"github.com/iho/ledgerstream/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd(cfg, os.Stdout, os.Stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledger <input-file>",
		Short: "Apply a ledger entry stream and print account balances",
		Long: `Reads deposits, withdrawals, disputes, resolves and chargebacks from a CSV
file, applies them in order and writes the final balance of every client
account to standard output as CSV.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), *cfg, args[0], stdout, stderr)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (console, json)")
	rootCmd.Flags().IntVar(&cfg.RetentionLimit, "retention-limit", cfg.RetentionLimit, "Maximum transactions kept for disputes (0 keeps all)")
	rootCmd.Flags().StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this textfile after the run")

	return rootCmd
}

func run(ctx context.Context, cfg config.Config, path string, stdout, stderr io.Writer) error {
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, stderr)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	store, err := memory.NewStore(memory.StoreConfig{
		RetentionLimit: cfg.RetentionLimit,
		OnEvict: func(record *domain.TransactionRecord) {
			m.TransactionsEvicted.Inc()
			log.Debug().Uint32("tx", uint32(record.Tx)).Msg("transaction left dispute window")
		},
	})
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	log.Info().Str("input", path).Int("retention_limit", cfg.RetentionLimit).Msg("processing ledger entries")

	uc := usecase.NewLedgerUseCase(store, log, m)
	result, err := uc.Run(ctx, csvio.NewReader(bufio.NewReader(file)))
	if err != nil {
		return fmt.Errorf("process %s: %w", path, err)
	}

	if err := csvio.WriteAccounts(stdout, result.Accounts); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Debug().Str("path", cfg.MetricsFile).Msg("metrics written")
	}

	return nil
}
