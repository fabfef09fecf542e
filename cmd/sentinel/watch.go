package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"PortfolioSentinel/internal/notifier"
	"PortfolioSentinel/internal/scheduler"
)

type watchCmd struct {
	runOnStart bool
}

func (*watchCmd) Name() string { return "watch" }
func (*watchCmd) Synopsis() string {
	return "push scheduled reports to Telegram and answer bot commands"
}
func (*watchCmd) Usage() string {
	return `sentinel watch [-now]

  Runs until interrupted. On every schedule.refresh_cron tick the
  portfolio is rebuilt and pushed to telegram.chat_id. The bot answers
  /portfolio, /prompt and /charts [TICKER].
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.runOnStart, "now", os.Getenv("RUN_ON_START") == "true", "Push a report immediately on start (env RUN_ON_START).")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.cfg.ValidateTelegram(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	chatID, _ := strconv.ParseInt(a.cfg.Telegram.ChatID, 10, 64)

	bot, err := notifier.NewBot(a.cfg.Telegram.BotToken, a.cfg.DataSource.Proxy, false)
	if err != nil {
		a.logger.Error().Err(err).Msg("telegram bot")
		return subcommands.ExitFailure
	}
	if err := bot.SetCommands(notifier.Commands); err != nil {
		a.logger.Warn().Err(err).Msg("set bot commands")
	}
	notifier.NewHandler(a.service, a.logger).Register(bot)
	tn := notifier.NewTelegramNotifier(bot, chatID, a.logger)

	sched := scheduler.NewScheduler(ctx, a.service, tn, a.logger)
	if err := sched.Register(a.cfg.Schedule.RefreshCron); err != nil {
		a.logger.Error().Err(err).Msg("register cron task")
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	go bot.Start()
	a.logger.Info().Msg("telegram polling started")

	if c.runOnStart {
		a.logger.Info().Msg("RUN_ON_START enabled, pushing report now")
		go sched.RunNow()
	}

	a.logger.Info().Msg("PortfolioSentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	a.logger.Info().Msg("shutdown signal received, stopping...")
	bot.Stop()
	return subcommands.ExitSuccess
}
