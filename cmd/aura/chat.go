package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/aura"
	"github.com/aretw0/aura/internal/cli"
	"github.com/aretw0/aura/internal/logging"
	"github.com/aretw0/aura/internal/presentation/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the advisor in the terminal",
	Long: `Runs the conversation locally, one line per turn, against the configured stores.
Type "exit" to leave. Piped input is processed without banner or styling.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		rt, err := cli.NewRuntime(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := rt.Close(); err != nil {
				logger.Warn("Failed to close backends", logging.Err(err))
			}
		}()

		interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		prompt := ""
		if interactive {
			tui.PrintBanner(os.Stdout, aura.Version)
			prompt = "> "
		}

		userID, _ := cmd.Flags().GetString("user")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return cli.Chat(ctx, rt.Engine, cli.ChatOptions{
			In:     os.Stdin,
			Out:    os.Stdout,
			UserID: userID,
			Render: tui.NewRenderer(interactive),
			Prompt: prompt,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("user", "console", "Session id used for the conversation")
}
