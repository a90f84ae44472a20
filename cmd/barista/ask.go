package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sandevgo/barista/internal/config"
	"github.com/sandevgo/barista/internal/core"
	"github.com/sandevgo/barista/internal/service/ui"
	"github.com/sandevgo/barista/pkg/conv"
	"github.com/sandevgo/barista/pkg/log"
	"github.com/spf13/cobra"
)

const cliUserID core.UserID = "cli-local"

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send one message to the bot and print the answer",
	Long:  `Runs a single message through the same memory and completion pipeline the chat transports use. Handy for checking credentials and prompts.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		ctx = log.WithRequest(ctx, uuid.NewString(), string(cliUserID))
		text := strings.TrimSpace(strings.Join(args, " "))

		answer, handled := a.newRouter(config.DefaultGreeting).Execute(ctx, cliUserID, text)
		if !handled {
			var err error
			answer, err = a.agent.Run(ctx, cliUserID, text)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
		}

		plain := conv.HTMLToText(conv.MarkdownToTelegramHTML([]byte(answer)))
		_, err := fmt.Fprintln(cmd.OutOrStdout(), ui.AnswerStyle.Render(plain))
		return err
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
