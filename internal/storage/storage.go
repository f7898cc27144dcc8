package storage

import (
	"tmsync/internal/config"
	"tmsync/internal/domain"
)

// Storage persists and loads the last run report (e.g. for the errors viewer).
type Storage interface {
	SaveReport(report *domain.RunReport) error
	LoadReport() (*domain.RunReport, error)
}

// JSONStorage stores the report in a JSON file under the configured report path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's report path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
