package commands

import (
	"errors"
	"fmt"
	"time"

	"tmsync/internal/config"
	"tmsync/internal/domain"
	"tmsync/internal/logging"
	"tmsync/internal/storage"
)

// ErrNoToken is returned by commands talking to the remote service without a token
var ErrNoToken = errors.New("no API token configured (set " + config.EnvToken + ")")

func requireToken(cfg *config.Config) error {
	if cfg.Token == "" {
		return ErrNoToken
	}
	return nil
}

func newReport(command string, cfg *config.Config, duration time.Duration) *domain.RunReport {
	return &domain.RunReport{
		Meta: domain.RunMeta{
			Command:         command,
			DryRun:          cfg.Flags.DryRun,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Workers:         cfg.Processors,
			Timestamp:       time.Now().Format(time.RFC3339),
		},
	}
}

// saveReport persists the report. Write failures are logged, the run result stands.
func saveReport(st storage.Storage, report *domain.RunReport) {
	if err := st.SaveReport(report); err != nil {
		logging.Warn("report", "%v", fmt.Errorf("failed to save run report: %w", err))
	}
}
