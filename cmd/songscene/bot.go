package main

import (
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/leofalp/songscene/core/recovery"
	"github.com/leofalp/songscene/internal/telegram"
)

func newBotCmd(a *app) *cobra.Command {
	var (
		shape, repair string
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Serve song lookups over Telegram until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.TelegramToken == "" {
				return errors.New("bot requires TELEGRAM_BOT_TOKEN")
			}

			opts, err := a.parserOptions(cmd, shape, repair)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			finder, closeFinder, err := a.newFinder(ctx, recovery.NewParser(opts...), logLevel(verbose))
			if err != nil {
				return err
			}
			defer closeFinder()

			api, err := tgbotapi.NewBotAPI(a.cfg.TelegramToken)
			if err != nil {
				return err
			}
			a.logger.Info("telegram bot started",
				slog.String("username", api.Self.UserName),
				slog.String("provider", string(a.cfg.Provider)),
				slog.String("model", a.cfg.Model),
			)

			bot := telegram.NewBot(api, finder, a.logger)
			err = telegram.Poll(ctx, api, bot.HandleUpdate, telegram.WithPollLogger(a.logger))
			if ctx.Err() != nil {
				a.logger.Info("telegram bot stopped")
				return nil
			}
			return err
		},
	}

	addParserFlags(cmd, &shape, &repair)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log prompts and completions")
	return cmd
}
