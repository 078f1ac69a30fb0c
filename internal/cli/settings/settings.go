package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/validation"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Update settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx.Println("Current Settings:")
	ctx.Printf("  Start Hour:        %02d:00\n", settings.StartHour)
	ctx.Printf("  End Hour:          %02d:00\n", settings.EndHour)
	ctx.Printf("  Default Block Min: %d\n", settings.DefaultBlockMin)
	ctx.Printf("  AI Model:          %s\n", settings.AIModel)
	ctx.Printf("  Storage:           %s (%s)\n", ctx.Store.GetConfigPath(), ctx.Backend)
	return nil
}

type SettingsSetCmd struct {
	StartHour       *int    `help:"First hour of the slot grid (0-23)."`
	EndHour         *int    `help:"Hour the slot grid ends (1-24)."`
	DefaultBlockMin *int    `help:"Default block length in minutes."`
	AIModel         *string `name:"ai-model" help:"Gemini model name."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.StartHour != nil {
		settings.StartHour = *c.StartHour
		updated = true
	}
	if c.EndHour != nil {
		settings.EndHour = *c.EndHour
		updated = true
	}
	if c.DefaultBlockMin != nil {
		settings.DefaultBlockMin = *c.DefaultBlockMin
		updated = true
	}
	if c.AIModel != nil {
		model := strings.TrimSpace(*c.AIModel)
		if model == "" {
			return fmt.Errorf("ai model cannot be empty")
		}
		settings.AIModel = model
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use 'timebox settings show' to view settings or flags to update them.")
		return nil
	}

	if err := validation.ValidateSettings(settings); err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
