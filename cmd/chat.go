package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/govjobs/internal/history"
	"github.com/spigell/govjobs/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation about the job catalog",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("session", "s", "", "resume a stored conversation (default is a new session)")
}

func isExit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	default:
		return false
	}
}

func chat(cmd *cobra.Command) {
	ctx := context.Background()

	config, log := setup()

	a, err := newApplication(ctx, config, log, true, true)
	if err != nil {
		log.Fatal("preparing the assistant", zap.Error(err))
	}
	defer a.Close()

	session, _ := cmd.Flags().GetString("session")
	if session == "" {
		session = history.NewSessionID()
	}
	if a.history == nil {
		log.Warn("history is disabled, follow-up questions will not see earlier turns")
	}

	log = log.With(zap.String(logger.FieldSession, session))
	log.Info("starting the chat", zap.String("version", version), zap.String("hint", "type exit or quit to leave"))

	prompt := promptui.Prompt{
		Label: "You",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("question is empty")
			}
			return nil
		},
	}

	for {
		question, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				log.Info("exiting", zap.String("reason", "prompt closed"))
				return
			}
			log.Fatal("reading the question", zap.Error(err))
		}

		if isExit(question) {
			log.Info("exiting", zap.String("reason", "exit requested"))
			return
		}

		answer, err := a.service.Ask(ctx, session, question, os.Stdout)
		if err != nil {
			log.Error("answering the question", zap.Error(err))
			continue
		}
		fmt.Println()
		fmt.Println()

		log.Debug("answered",
			zap.Int("matched", answer.Matched),
			zap.Int("sent_records", len(answer.Records)),
			zap.Bool("broadened", answer.Broadened),
		)
	}
}
