package commands

import (
	"github.com/spf13/cobra"

	"tmsync/internal/config"
)

// ErrorsCommand handles the errors command
type ErrorsCommand struct {
	config *config.Config
	deps   *dependencies
}

// NewErrorsCommand creates a new ErrorsCommand
func NewErrorsCommand(cfg *config.Config, deps *dependencies) *ErrorsCommand {
	return &ErrorsCommand{
		config: cfg,
		deps:   deps,
	}
}

// Execute runs the command
func (ec *ErrorsCommand) Execute(cmd *cobra.Command, args []string) error {
	report, err := ec.deps.storage.LoadReport()
	if err != nil {
		return err
	}

	return ec.deps.viewer.View(report)
}
