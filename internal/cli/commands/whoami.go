package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tmsync/internal/config"
)

// WhoamiCommand handles the whoami command
type WhoamiCommand struct {
	config *config.Config
	deps   *dependencies
}

// NewWhoamiCommand creates a new WhoamiCommand
func NewWhoamiCommand(cfg *config.Config, deps *dependencies) *WhoamiCommand {
	return &WhoamiCommand{
		config: cfg,
		deps:   deps,
	}
}

// Execute runs the command
func (wc *WhoamiCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := requireToken(wc.config); err != nil {
		return err
	}

	account, found, err := wc.deps.client.Account(cmd.Context())
	if err != nil {
		return err
	}
	if !found {
		color.Yellow("No account information available at %s", wc.config.BaseURL)
		return nil
	}

	fmt.Printf("%s %s\n", color.CyanString("Username:"), account.Username)
	fmt.Printf("%s %s\n", color.CyanString("Email:   "), account.Email)
	fmt.Printf("%s %s\n", color.CyanString("Service: "), wc.config.BaseURL)
	return nil
}
