package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dispute-resolver/internal/classifier"
	"dispute-resolver/internal/config"
	"dispute-resolver/internal/correlator"
	"dispute-resolver/internal/db"
	"dispute-resolver/internal/domain"
	"dispute-resolver/internal/gateway"
	"dispute-resolver/internal/logger"
	"dispute-resolver/internal/usecase"

	"github.com/rs/zerolog"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			log := logger.New(zerolog.InfoLevel)
			log.Error().Err(err).Msg("resolution failed")
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("resolver", flag.ContinueOnError)
	fs.SetOutput(stderr)
	disputesFile := fs.String("disputes", "", "Path to the disputes CSV file")
	transactionsFile := fs.String("transactions", "", "Path to the transactions CSV file")
	databaseURL := fs.String("database-url", "", "PostgreSQL connection string, used instead of the CSV files")
	configFile := fs.String("config", "", "Path to a YAML config file")
	outFile := fs.String("out", "", "Optional path for a CSV export of the resolved cases")
	workers := fs.Int("workers", 0, "Number of disputes processed concurrently")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *databaseURL != "" {
		cfg.DatabaseURL = *databaseURL
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	useCSV := *disputesFile != "" || *transactionsFile != ""
	if useCSV && (*disputesFile == "" || *transactionsFile == "") {
		fmt.Fprintln(stderr, "Error: -disputes and -transactions must be given together.")
		fs.Usage()
		return errUsage
	}
	if !useCSV && cfg.DatabaseURL == "" {
		fmt.Fprintln(stderr, "Error: either -disputes/-transactions or -database-url is required.")
		fs.Usage()
		return errUsage
	}

	log := logger.NewConsole(stderr, logger.ParseLevel(cfg.LogLevel))
	ctx = logger.WithContext(ctx, log)

	// --- Dependency Injection (Wiring the application) ---

	// 1. Create the repository
	var repo usecase.DisputeRepository
	if useCSV {
		repo = gateway.NewCSVDisputeRepository(*disputesFile, *transactionsFile)
	} else {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		repo = gateway.NewPostgresDisputeRepository(pool)
	}

	// 2. Build the classifier from the configured keyword table
	rules, err := classifier.NewRuleClassifier(cfg.Rules)
	if err != nil {
		return fmt.Errorf("invalid classifier rules: %w", err)
	}

	// 3. Create the usecase and inject its collaborators
	resolutionUseCase := usecase.NewResolutionUseCase(repo, rules).
		WithCorrelator(correlator.New(correlator.WithWindow(cfg.CorrelationWindow))).
		WithWorkers(cfg.Workers)

	log.Debug().
		Dur("window", cfg.CorrelationWindow).
		Int("workers", cfg.Workers).
		Int("rules", len(cfg.Rules)).
		Bool("csv", useCSV).
		Msg("configuration loaded")

	// --- Execute the Usecase ---
	report, err := resolutionUseCase.Resolve(ctx)
	if err != nil {
		return err
	}

	if *outFile != "" {
		if err := writeCSV(*outFile, report.Cases, log); err != nil {
			return err
		}
	}

	// --- Present the Output ---
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate JSON report: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(output))
	return err
}

func writeCSV(path string, cases []domain.Case, log zerolog.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := gateway.WriteCases(f, cases); err != nil {
		f.Close()
		return fmt.Errorf("export cases: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("cases", len(cases)).Msg("cases exported")
	return nil
}
