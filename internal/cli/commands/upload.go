package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tmsync/internal/config"
	"tmsync/internal/domain"
	"tmsync/internal/pipeline"
)

// UploadCommand handles the upload command
type UploadCommand struct {
	config *config.Config
	deps   *dependencies
}

// NewUploadCommand creates a new UploadCommand
func NewUploadCommand(cfg *config.Config, deps *dependencies) *UploadCommand {
	return &UploadCommand{
		config: cfg,
		deps:   deps,
	}
}

// Execute runs the command
func (uc *UploadCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := requireToken(uc.config); err != nil {
		return err
	}
	if err := uc.deps.store.CheckRoot(); err != nil {
		return err
	}

	result, err := uc.deps.uploader.Upload(cmd.Context())
	if result == nil {
		return err
	}

	report := newReport("upload", uc.config, result.Duration)
	report.Meta.TotalFiles = result.TotalFiles
	report.Meta.FailedFiles = len(result.Issues)
	report.Meta.Created = result.Created
	report.Meta.Updated = result.Updated
	report.Meta.Skipped = result.Skipped
	report.Details = result.Issues
	saveReport(uc.deps.storage, report)

	var verr *pipeline.ValidationError
	if errors.As(err, &verr) {
		return showValidationFailures(uc.config, uc.deps, report, err)
	}
	if err != nil {
		return err
	}

	uc.deps.formatter.PrintRunStats(report)
	return nil
}

// showValidationFailures prints the failing files, optionally opens the viewer,
// and hands back the validation error.
func showValidationFailures(cfg *config.Config, deps *dependencies, report *domain.RunReport, err error) error {
	deps.formatter.PrintValidationFailures(report.Details)
	if cfg.Flags.OpenErrors {
		if viewErr := deps.viewer.View(report); viewErr != nil {
			return viewErr
		}
	}
	return err
}
