package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"captionforge/internal/config"
	"captionforge/internal/qc"
)

// ReportOutput persists QC reports as JSON files for the run manifest
type ReportOutput struct {
	filePath string
	logger   *zap.Logger
}

// NewReportOutput creates a ReportOutput using the configured report path
func NewReportOutput(cfg *config.Configuration, logger *zap.Logger) (*ReportOutput, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &ReportOutput{
		filePath: cfg.GetReportPath(),
		logger:   logger,
	}, nil
}

// GetFilePath returns the report output path
func (ro *ReportOutput) GetFilePath() string {
	return ro.filePath
}

// FormatReportAsJSON renders the report as indented JSON
func (ro *ReportOutput) FormatReportAsJSON(report *qc.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("report cannot be nil")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// WriteReport persists the report atomically via a temp file rename
func (ro *ReportOutput) WriteReport(report *qc.Report) error {
	data, err := ro.FormatReportAsJSON(report)
	if err != nil {
		return err
	}

	dir := filepath.Dir(ro.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tempFile := ro.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	if err := os.Rename(tempFile, ro.filePath); err != nil {
		return fmt.Errorf("failed to rename report file: %w", err)
	}

	ro.logger.Info("wrote QC report",
		zap.String("path", ro.filePath),
		zap.String("status", string(report.Status)),
		zap.Int("violation_count", len(report.Violations)))

	return nil
}
