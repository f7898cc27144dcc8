package commands

import (
	"github.com/spf13/cobra"

	"tmsync/internal/config"
)

// ExportCommand handles the export command
type ExportCommand struct {
	config *config.Config
	deps   *dependencies
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(cfg *config.Config, deps *dependencies) *ExportCommand {
	return &ExportCommand{
		config: cfg,
		deps:   deps,
	}
}

// Execute runs the command
func (ec *ExportCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := requireToken(ec.config); err != nil {
		return err
	}
	if err := ec.deps.store.CheckRoot(); err != nil {
		return err
	}

	result, err := ec.deps.exporter.Export(cmd.Context())
	if result != nil {
		report := newReport("export", ec.config, result.Duration)
		report.Meta.Exported = len(result.Paths)
		saveReport(ec.deps.storage, report)
		if err == nil {
			ec.deps.formatter.PrintRunStats(report)
		}
	}
	return err
}
