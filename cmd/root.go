package cmd

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dealflow/internal/backend"
	"dealflow/internal/config"
	"dealflow/internal/database"
	"dealflow/internal/events"
	"dealflow/internal/logging"
	"dealflow/internal/pipeline"
	"dealflow/internal/transition"
	"dealflow/internal/tui"
)

var (
	flagLocal  bool
	flagAPIURL string
	flagToken  string
)

var rootCmd = &cobra.Command{
	Use:   "dealflow",
	Short: "Dealflow - a terminal deal pipeline board",
	Long: `Dealflow renders your deal pipeline as a stage board and moves deals
between stages with optimistic updates against the deal API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().BoolVar(&flagLocal, "local", false, "use the local demo database instead of the deal API")
	rootCmd.Flags().StringVar(&flagAPIURL, "api-url", "", "deal API base URL (overrides config)")
	rootCmd.Flags().StringVar(&flagToken, "token", "", "deal API bearer token (overrides config)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runBoard(ctx context.Context) error {
	if err := logging.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagAPIURL != "" {
		cfg.API.URL = flagAPIURL
	}
	if flagToken != "" {
		cfg.API.Token = flagToken
	}

	client, cleanup, err := buildClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	store := pipeline.NewStore(cfg.Stages())

	// Host-level hook: confirmed stage changes go to the log. Analytics
	// or toast integrations subscribe the same way.
	bus := events.NewBus()
	bus.Subscribe(func(e events.StageChanged) {
		slog.Info("stage changed", "deal", e.DealID, "from", e.FromStage, "to", e.ToStage)
	})

	svc := transition.NewService(store, client, bus)
	defer svc.Close()

	model := tui.InitialModel(ctx, cfg, store, svc, client)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// buildClient picks the backend collaborator: the deal API, or the
// local sqlite repository when --local is set (or no API is configured).
func buildClient(ctx context.Context, cfg *config.Config) (backend.Client, func(), error) {
	if flagLocal || cfg.API.URL == "" {
		db, err := database.InitDB(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize local database: %w", err)
		}
		repo := database.NewDealRepo(db, cfg.Stages())
		if err := repo.Seed(ctx, cfg.Stages()[0].Key); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to seed demo deals: %w", err)
		}
		return repo, func() { _ = db.Close() }, nil
	}

	opts := []backend.Option{}
	if cfg.API.Token != "" {
		opts = append(opts, backend.WithAuth(backend.BearerToken(cfg.API.Token)))
	}
	return backend.NewHTTPClient(cfg.API.URL, opts...), func() {}, nil
}
