// Package keyring keeps timebox secrets in the OS credential store: the
// database connection string and the Gemini API key.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/timebox/internal/constants"
)

var (
	ErrNotFound           = errors.New("secret not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// secret names one keyring entry under the timebox service.
type secret struct {
	user  string
	label string
}

var (
	connectionSecret = secret{user: constants.DefaultKeyringUser, label: "connection string"}
	aiKeySecret      = secret{user: constants.KeyringAIKeyUser, label: "AI API key"}
)

func (s secret) get() (string, error) {
	value, err := keyring.Get(constants.AppName, s.user)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

func (s secret) set(value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", s.label)
	}
	if err := keyring.Set(constants.AppName, s.user, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", s.label, err)
	}
	return nil
}

func (s secret) delete() error {
	err := keyring.Delete(constants.AppName, s.user)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("failed to delete %s from keyring: %w", s.label, err)
	}
	return nil
}

// GetConnectionString returns the stored database connection string or
// ErrNotFound.
func GetConnectionString() (string, error) { return connectionSecret.get() }

func SetConnectionString(connStr string) error { return connectionSecret.set(connStr) }

func DeleteConnectionString() error { return connectionSecret.delete() }

// GetAIKey returns the stored Gemini API key or ErrNotFound.
func GetAIKey() (string, error) { return aiKeySecret.get() }

func SetAIKey(key string) error { return aiKeySecret.set(key) }

func DeleteAIKey() error { return aiKeySecret.delete() }

// IsAvailable reports whether the OS keyring answers a read. Best effort.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-check")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
