package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/keyring"
	"github.com/julianstephens/timebox/internal/storage/postgres"
)

type KeyringCmd struct {
	Set         KeyringSetCmd         `cmd:"" help:"Store the database connection string."`
	Get         KeyringGetCmd         `cmd:"" help:"Show the stored connection string with the password masked."`
	Delete      KeyringDeleteCmd      `cmd:"" help:"Remove the stored connection string."`
	Status      KeyringStatusCmd      `cmd:"" help:"Check keyring availability." default:"1"`
	SetAIKey    KeyringSetAIKeyCmd    `cmd:"" name:"set-ai-key" help:"Store the Gemini API key."`
	DeleteAIKey KeyringDeleteAIKeyCmd `cmd:"" name:"delete-ai-key" help:"Remove the stored Gemini API key."`
}

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !postgres.IsConnString(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is encrypted, so a password is acceptable here
		ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.Println("✓ Connection string stored successfully in OS keyring")
	ctx.Println("  timebox will use it when --config is not given")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'timebox keyring set' to store one")
		}
		return err
	}
	ctx.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")

	for _, entry := range []struct {
		name string
		get  func() (string, error)
	}{
		{"Connection string", keyring.GetConnectionString},
		{"Gemini API key", keyring.GetAIKey},
	} {
		if _, err := entry.get(); err == nil {
			ctx.Printf("✓ %s is stored\n", entry.name)
		} else {
			ctx.Printf("ℹ %s is not stored\n", entry.name)
		}
	}
	return nil
}

type KeyringSetAIKeyCmd struct {
	Key string `arg:"" help:"Gemini API key."`
}

func (cmd *KeyringSetAIKeyCmd) Run(ctx *cli.Context) error {
	if err := keyring.SetAIKey(strings.TrimSpace(cmd.Key)); err != nil {
		return err
	}
	ctx.Println("✓ Gemini API key stored in OS keyring")
	return nil
}

type KeyringDeleteAIKeyCmd struct{}

func (cmd *KeyringDeleteAIKeyCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no Gemini API key found in keyring")
		}
		return err
	}
	ctx.Println("✓ Gemini API key deleted from OS keyring")
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		return u.Redacted()
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if key, _, ok := strings.Cut(f, "="); ok && strings.EqualFold(key, "password") {
			fields[i] = key + "=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}
