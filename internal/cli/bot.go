package cli

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	telegram "dgm-demo/internal/api"
	"dgm-demo/internal/container"
)

func newBotCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long: `Run the Telegram bot front end. The bot token is read from TELEGRAM_TOKEN
(environment or .env) or from telegram_token in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.TelegramToken == "" {
				return errors.New("TELEGRAM_TOKEN is required")
			}

			app := container.Build(cfg)
			defer app.Close()

			bot, err := telegram.NewBot(cfg.TelegramToken, app)
			if err != nil {
				return err
			}
			defer bot.Close()

			logrus.WithField("endpoint", cfg.EndpointURL).Info("bot is running")
			return bot.Run(cmd.Context())
		},
	}
}
