package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tmsync/internal/domain"
)

// SaveReport writes the report to the configured JSON file.
func (s *JSONStorage) SaveReport(report *domain.RunReport) error {
	if report.Details == nil {
		report.Details = []domain.FileIssue{}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	path := s.cfg.GetReportPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// LoadReport reads the last report from the configured JSON file.
func (s *JSONStorage) LoadReport() (*domain.RunReport, error) {
	path := s.cfg.GetReportPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &report, nil
}
