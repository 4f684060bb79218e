package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keychain service secrets are stored under.
const KeyringService = "govjobs"

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// File points to a file containing the secret value. It takes precedence
	// over every other field.
	File string
	// Env names an environment variable holding the secret.
	Env string
	// KeyringAccount is the account looked up in the OS keychain.
	KeyringAccount string
	// Value is an inline secret value provided via configuration or flags.
	Value string
}

// Load returns the resolved secret, trying File, Env, KeyringAccount and
// Value in that order. The returned secret is always trimmed.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	if account := strings.TrimSpace(src.KeyringAccount); account != "" {
		secret, err := keyring.Get(KeyringService, account)
		switch {
		case err == nil:
			if secret = strings.TrimSpace(secret); secret != "" {
				return secret, nil
			}
		case errors.Is(err, keyring.ErrNotFound):
		default:
			return "", fmt.Errorf("reading %s from keychain: %w", name, err)
		}
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}

// Store saves value in the OS keychain under account.
func Store(account, value string) error {
	account = strings.TrimSpace(account)
	if account == "" {
		return errors.New("keychain account is required")
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New("secret value is empty")
	}

	if err := keyring.Set(KeyringService, account, value); err != nil {
		return fmt.Errorf("store secret in keychain: %w", err)
	}
	return nil
}
