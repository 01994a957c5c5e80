package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dailytutor/dailytutor/internal/config"
	"github.com/dailytutor/dailytutor/internal/oracle"
	"github.com/dailytutor/dailytutor/internal/pkg/logger"
	"github.com/dailytutor/dailytutor/internal/qgen"
	"github.com/dailytutor/dailytutor/internal/session"
	"github.com/dailytutor/dailytutor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "dailytutor",
	Short: "Telegram tutoring bot with daily practice questions",
	Long:  "Daily Tutor is a Telegram bot that generates personalized practice questions, coaches learners through them, and judges their solutions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(deliverCmd)
	rootCmd.AddCommand(versionCmd)
}

// app holds the wired core shared by the serve and deliver commands.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	store    *store.Store
	provider oracle.Provider
	sessions *session.Manager
	gen      qgen.Generator
}

// buildApp loads config and wires storage, the oracle, and the session
// manager. The returned cleanup flushes logs and closes the database.
func buildApp(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	var st *store.Store
	if cfg.DatabaseDSN != "" {
		st, err = store.Open(cfg.DatabaseDSN)
	} else {
		st, err = store.OpenSQLite(cfg.SQLitePath)
	}
	if err != nil {
		log.Sync()
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	provider, err := oracle.New(ctx, cfg.Oracle, log)
	if err != nil {
		st.Close()
		log.Sync()
		return nil, nil, fmt.Errorf("init oracle: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		store:    st,
		provider: provider,
		sessions: session.NewManager(st.Users(), st.Sessions(), log),
		gen:      qgen.New(provider, qgen.DefaultConfig()),
	}
	cleanup := func() {
		st.Close()
		log.Sync()
	}
	return a, cleanup, nil
}
