package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tmsync/internal/config"
)

// NewCommand handles the new command
type NewCommand struct {
	config *config.Config
	deps   *dependencies
}

// NewNewCommand creates a new NewCommand
func NewNewCommand(cfg *config.Config, deps *dependencies) *NewCommand {
	return &NewCommand{
		config: cfg,
		deps:   deps,
	}
}

// Execute runs the command
func (nc *NewCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := nc.deps.store.CheckRoot(); err != nil {
		return err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	path, err := nc.deps.store.CreateScaffold(name)
	if err != nil {
		return err
	}
	color.Green("✓ Created %s", path)
	return nil
}
