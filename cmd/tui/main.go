package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"bizplan/internal/infra"
	"bizplan/internal/questionnaire"
	"bizplan/internal/repositories"
	"bizplan/internal/services"
	"bizplan/internal/storage"
	"bizplan/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	plan     string
	email    string
	baseURL  string
	fallback string
	timeout  time.Duration
	dbPath   string
	logFile  string
}

func main() {
	_ = godotenv.Load()

	opts := options{}
	root := &cobra.Command{
		Use:          "bizplan-tui",
		Short:        "Answer the business questionnaire in the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	f := root.Flags()
	f.StringVar(&opts.plan, "plan", "standard", "plan code to analyze under")
	f.StringVar(&opts.email, "email", "", "contact email sent with the submission")
	f.StringVar(&opts.baseURL, "base-url", os.Getenv("ANALYSIS_BASE_URL"), "analysis service base URL")
	f.StringVar(&opts.fallback, "fallback", envOr("ANALYSIS_FALLBACK", "fail"), "on analysis failure: fail or demo")
	f.DurationVar(&opts.timeout, "timeout", 120*time.Second, "analysis call timeout")
	f.StringVar(&opts.dbPath, "db", "", "sqlite file for results (in memory when empty)")
	f.StringVar(&opts.logFile, "log-file", "", "write logs here instead of discarding them")

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	catalog := questionnaire.Default()
	if _, ok := catalog.Plan(opts.plan); !ok {
		return fmt.Errorf("unknown plan %q", opts.plan)
	}
	if opts.email != "" && !services.ValidEmail(opts.email) {
		return fmt.Errorf("invalid email %q", opts.email)
	}
	policy, err := services.ParseFallbackPolicy(opts.fallback)
	if err != nil {
		return err
	}

	logger := zerolog.Nop()
	if opts.logFile != "" {
		lf, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer lf.Close()
		logger = zerolog.New(lf).With().Timestamp().Logger()
	}

	var store storage.KeyValueStore = storage.NewMemoryStore()
	if opts.dbPath != "" {
		db, err := infra.OpenSQLite(opts.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := repositories.NewSQLiteStoreRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
		store = repo
	}

	sessionID := uuid.NewString()
	logger = logger.With().Str("session_id", sessionID).Logger()
	sub := services.NewSubmissionCoordinator(
		services.NewHTTPAnalysisClient(opts.baseURL, opts.timeout),
		store,
		storage.KeysFor(sessionID),
		services.SubmissionOptions{Policy: policy, Timeout: opts.timeout, Logger: logger},
	)
	defer sub.Abort()

	final, err := tea.NewProgram(tui.NewModel(catalog, sub, opts.plan, opts.email), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok {
		if o, ok := m.Outcome(); ok {
			fmt.Printf("Analysis %s: %d/100 (%s)\n", o.Result.AnalysisID, o.Result.SuccessProbability, services.ScoreLabel(o.Result.SuccessProbability))
			if opts.dbPath != "" {
				fmt.Printf("Saved under session %s in %s\n", sessionID, opts.dbPath)
			}
		}
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
