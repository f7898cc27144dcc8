package commands

import (
	"errors"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tmsync/internal/config"
	"tmsync/internal/pipeline"
)

// ValidateCommand handles the validate command
type ValidateCommand struct {
	config *config.Config
	deps   *dependencies
}

// NewValidateCommand creates a new ValidateCommand
func NewValidateCommand(cfg *config.Config, deps *dependencies) *ValidateCommand {
	return &ValidateCommand{
		config: cfg,
		deps:   deps,
	}
}

// Execute runs the command
func (vc *ValidateCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := vc.deps.store.CheckRoot(); err != nil {
		return err
	}

	start := time.Now()
	validated, err := vc.deps.gate.Validate()
	report := newReport("validate", vc.config, time.Since(start))

	var verr *pipeline.ValidationError
	if errors.As(err, &verr) {
		report.Meta.TotalFiles = verr.TotalFiles
		report.Meta.FailedFiles = len(verr.Issues)
		report.Details = verr.Issues
		saveReport(vc.deps.storage, report)
		return showValidationFailures(vc.config, vc.deps, report, err)
	}
	if err != nil {
		return err
	}

	report.Meta.TotalFiles = len(validated.Paths)
	saveReport(vc.deps.storage, report)
	color.Green("✓ %d spec file(s) are valid", len(validated.Paths))
	return nil
}
