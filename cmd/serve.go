package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dailytutor/dailytutor/internal/bot"
	"github.com/dailytutor/dailytutor/internal/delivery"
	"github.com/dailytutor/dailytutor/internal/health"
	"github.com/dailytutor/dailytutor/internal/judge"
	"github.com/dailytutor/dailytutor/internal/tutor"
)

// fanOutTimeout bounds one scheduled delivery run.
const fanOutTimeout = 30 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot, the daily scheduler, and the health server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// runServe wires everything and blocks until SIGINT or SIGTERM.
func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	b, messenger, err := bot.New(a.cfg.TelegramToken, a.cfg.DeveloperChatID, a.log)
	if err != nil {
		return err
	}

	eng := tutor.NewEngine(a.provider, a.store.Messages(), tutor.DefaultConfig(), a.log)
	jdg := judge.New(a.provider, a.store.Messages(), judge.DefaultConfig(), a.log)
	scheduler := delivery.NewScheduler(a.store.Users(), a.sessions, a.gen, messenger, nil, a.log)

	b.SetHandlers(bot.NewHandlers(
		a.sessions, a.gen, eng, jdg,
		a.store.Responses(), scheduler, messenger, a.log,
	))

	runner, err := delivery.NewCronRunner(a.cfg.DeliveryTimezone, a.log)
	if err != nil {
		return err
	}
	if err := runner.Add(a.cfg.DeliveryCron, delivery.NewFanOutJob(scheduler, fanOutTimeout)); err != nil {
		return err
	}

	probe := health.NewServer(a.cfg.HealthPort, a.log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Run(gctx)
	})
	g.Go(func() error {
		runner.Start()
		<-gctx.Done()
		runner.Stop()
		return nil
	})
	g.Go(func() error {
		return probe.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return probe.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
