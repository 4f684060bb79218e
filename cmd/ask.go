package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/govjobs/internal/logger"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question about the job catalog",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ask(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringP("session", "s", "", "continue a stored conversation with this session id")
}

func ask(cmd *cobra.Command, question string) {
	ctx := context.Background()

	config, log := setup()

	session, _ := cmd.Flags().GetString("session")

	a, err := newApplication(ctx, config, log, true, session != "")
	if err != nil {
		log.Fatal("preparing the assistant", zap.Error(err))
	}
	defer a.Close()

	log = log.With(zap.String(logger.FieldSession, session))

	answer, err := a.service.Ask(ctx, session, question, os.Stdout)
	if err != nil {
		log.Fatal("answering the question", zap.Error(err))
	}
	fmt.Println()

	log.Debug("answered",
		zap.Int("matched", answer.Matched),
		zap.Int("sent_records", len(answer.Records)),
		zap.Bool("broadened", answer.Broadened),
	)
}
