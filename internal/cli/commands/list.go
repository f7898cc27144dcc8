package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tmsync/internal/config"
)

// ListCommand handles the list command
type ListCommand struct {
	config *config.Config
	deps   *dependencies
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, deps *dependencies) *ListCommand {
	return &ListCommand{
		config: cfg,
		deps:   deps,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	specs, err := lc.deps.scanner.Scan(lc.deps.store.Root())
	if err != nil {
		return err
	}

	// Filter spec files
	specs = lc.deps.filter.FilterByName(specs, lc.config.Flags.NameFilter)

	if len(specs) == 0 {
		color.Yellow("No spec files found")
		return nil
	}

	return lc.deps.formatter.PrintSpecList(specs, lc.config.Flags.ShowSteps)
}
