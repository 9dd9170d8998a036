package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jasonisamilehigh/taskme/internal/config"
	"github.com/jasonisamilehigh/taskme/internal/extract"
	"github.com/jasonisamilehigh/taskme/internal/store"
	"github.com/jasonisamilehigh/taskme/internal/telephony"
)

var Version = "dev"

var (
	verbose bool
	rootCmd = &cobra.Command{
		Use:           "taskme",
		Short:         "taskme - voice-driven personal task manager",
		Long:          `taskme places a morning briefing call summarizing upcoming tasks and lets callers add tasks by speaking them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	rootCmd.Version = Version
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(briefCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// app bundles the collaborators shared by the commands.
type app struct {
	cfg        *config.Config
	log        *logrus.Logger
	store      store.TaskStore
	closeStore func()
	extractor  *extract.Client
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := newLogger()

	st, closer, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		log:        log,
		store:      st,
		closeStore: closer,
		extractor:  extract.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.Extraction.Model, log),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (store.TaskStore, func(), error) {
	switch cfg.Store.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, func() { s.Close() }, nil

	case "", "sheets":
		s, err := store.NewSheetsStore(ctx, cfg.Store.Sheets.CredentialsFile, cfg.Store.Sheets.SpreadsheetID, cfg.Store.Sheets.Range, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open sheets store: %w", err)
		}
		return s, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// newDialer builds the outbound dialer, or nil when Twilio credentials
// are absent. A nil dialer degrades the briefing to a logged no-op.
func newDialer(cfg *config.Config, log *logrus.Logger) *telephony.Dialer {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	if sid == "" || token == "" {
		log.Warn("Twilio credentials not set, outbound calls disabled")
		return nil
	}

	d, err := telephony.NewDialer(sid, token, cfg.Twilio.From, cfg.Twilio.To, log)
	if err != nil {
		log.WithError(err).Warn("dialer unavailable, outbound calls disabled")
		return nil
	}
	return d
}
