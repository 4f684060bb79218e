package cmd

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/govjobs/internal/secrets"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the model API key in the OS keychain",
}

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the Gemini API key in the OS keychain",
	Run: func(_ *cobra.Command, _ []string) {
		setKey()
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	rootCmd.AddCommand(keyCmd)
}

func setKey() {
	config, log := setup()

	account := "gemini"
	if config.AI != nil && config.AI.Gemini != nil && config.AI.Gemini.KeyringAccount != "" {
		account = config.AI.Gemini.KeyringAccount
	}

	prompt := promptui.Prompt{
		Label: "Gemini API key",
		Mask:  '*',
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("key is empty")
			}
			return nil
		},
	}

	key, err := prompt.Run()
	if err != nil {
		log.Fatal("reading the key", zap.Error(err))
	}

	if err := secrets.Store(account, key); err != nil {
		log.Fatal("storing the key", zap.Error(err))
	}

	log.Info("key stored", zap.String("service", secrets.KeyringService), zap.String("account", account))
}
