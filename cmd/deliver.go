package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dailytutor/dailytutor/internal/bot"
	"github.com/dailytutor/dailytutor/internal/delivery"
)

// deliverCmd runs one fan-out and exits. Useful for cron-less hosts and
// for re-sending after an outage. With arguments it targets specific
// user ids and bypasses the eligibility policy.
var deliverCmd = &cobra.Command{
	Use:   "deliver [user-id...]",
	Short: "Send the daily question once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, cleanup, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		_, messenger, err := bot.New(a.cfg.TelegramToken, a.cfg.DeveloperChatID, a.log)
		if err != nil {
			return err
		}

		scheduler := delivery.NewScheduler(a.store.Users(), a.sessions, a.gen, messenger, nil, a.log)

		var report *delivery.Report
		if len(args) == 0 {
			report, err = scheduler.DeliverAll(ctx)
		} else {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, parseErr := strconv.ParseInt(arg, 10, 64)
				if parseErr != nil {
					return fmt.Errorf("invalid user id %q", arg)
				}
				ids = append(ids, id)
			}
			report, err = scheduler.DeliverTo(ctx, ids)
		}
		if err != nil {
			return err
		}

		fmt.Printf("delivered %d, failed %d, skipped %d\n", report.Delivered, report.Failed, report.Skipped)
		return nil
	},
}
