package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"captionforge/internal/config"
	"captionforge/internal/cue"
	"captionforge/internal/layout"
	"captionforge/internal/logger"
	"captionforge/internal/qc"
	"captionforge/internal/subtitle"
	"captionforge/internal/verbatim"
)

// Application represents the main caption synthesis application orchestrator
type Application struct {
	config       *config.Configuration
	zapLogger    *zap.Logger
	pipeline     *Pipeline
	reportOutput *logger.ReportOutput
	scriptSource ScriptSource
	transcriber  Transcriber
}

// NewApplication creates a new application instance with all components initialized
func NewApplication() (*Application, error) {
	// Load configuration from config file if CONFIG_PATH is set, otherwise use environment variables
	var cfg *config.Configuration
	var err error

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		cfg, err = config.NewConfigurationFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.NewConfigurationFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load config from environment: %w", err)
		}
	}

	zapLogger := logger.NewLogger()
	return NewApplicationWithConfig(cfg, zapLogger)
}

// NewApplicationWithConfig creates an application instance from an explicit configuration
func NewApplicationWithConfig(cfg *config.Configuration, zapLogger *zap.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}

	reportOutput, err := logger.NewReportOutput(cfg, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create report output: %w", err)
	}

	cueConfig := cue.Config{
		MaxLines:         cfg.GetMaxLines(),
		MaxCharsPerLine:  cfg.GetMaxCharsPerLine(),
		MaxCueDurationMS: int(cfg.GetMaxCueDurationSeconds() * 1000),
		MinCueDurationMS: int(cfg.GetMinCueDurationSeconds() * 1000),
	}

	thresholds := qc.DefaultThresholds()
	thresholds.MinCueSeconds = cfg.GetMinCueDurationSeconds()
	thresholds.MaxCueSeconds = cfg.GetMaxCueDurationSeconds()
	thresholds.AVDeltaToleranceSeconds = cfg.GetAVDeltaToleranceSeconds()
	thresholds.SubtitleEndDeltaToleranceSeconds = cfg.GetSubtitleEndDeltaToleranceSeconds()
	thresholds.LateStartToleranceSeconds = cfg.GetLateStartToleranceSeconds()

	app := &Application{
		config:       cfg,
		zapLogger:    zapLogger,
		pipeline:     NewPipelineWithLogger(cueConfig, thresholds, zapLogger),
		reportOutput: reportOutput,
	}

	if path := cfg.GetScriptPath(); path != "" {
		app.scriptSource = NewFileScriptSource(path)
	}
	if path := cfg.GetTranscriptPath(); path != "" {
		app.transcriber = NewFileTranscriber(path)
	}

	return app, nil
}

// SetScriptSource overrides the script source, for callers that supply
// text from somewhere other than a file
func (app *Application) SetScriptSource(source ScriptSource) {
	app.scriptSource = source
}

// SetTranscriber overrides the transcript source
func (app *Application) SetTranscriber(transcriber Transcriber) {
	app.transcriber = transcriber
}

// Run executes one full synthesis pass and persists the artifacts
func (app *Application) Run(ctx context.Context) error {
	app.zapLogger.Info("starting caption synthesis")

	// Check if context is already cancelled
	select {
	case <-ctx.Done():
		app.zapLogger.Info("context cancelled before startup, shutting down immediately")
		return nil
	default:
	}

	input, err := app.gatherInput()
	if err != nil {
		return err
	}

	result, runErr := app.pipeline.Run(input)
	if result != nil {
		if persistErr := app.persist(result); persistErr != nil {
			if runErr != nil {
				app.zapLogger.Error("failed to persist artifacts after pipeline failure",
					zap.Error(persistErr))
				return runErr
			}
			return persistErr
		}
	}
	if runErr != nil {
		return runErr
	}

	app.zapLogger.Info("caption synthesis complete",
		zap.Int("cue_count", len(result.Cues)),
		zap.String("qc_status", string(result.Report.Status)),
		zap.Int("violation_count", len(result.Report.Violations)))
	return nil
}

// gatherInput loads inputs and resolves enumerated settings
func (app *Application) gatherInput() (PipelineInput, error) {
	var input PipelineInput

	mode, err := qc.ParseMode(app.config.GetQCMode())
	if err != nil {
		return input, err
	}
	input.Mode = mode

	policy := verbatim.Policy(app.config.GetVerbatimPolicy())
	if !policy.Valid() {
		return input, fmt.Errorf("invalid verbatim policy %q: use audio or script", policy)
	}
	input.Policy = policy

	profile, err := layout.ProfileByName(app.config.GetRenderProfile())
	if err != nil {
		return input, err
	}
	profile.MarginHorizontalFraction = app.config.GetSafeMarginHorizontalFraction()
	profile.MarginVerticalFraction = app.config.GetSafeMarginVerticalFraction()
	input.Profile = profile
	input.StrictLayout = app.config.GetStrictLayout()

	input.AudioDurationSeconds = app.config.GetAudioDurationSeconds()
	input.VideoDurationSeconds = app.config.GetVideoDurationSeconds()

	if app.scriptSource != nil {
		script, err := app.scriptSource.ScriptText()
		if err != nil {
			return input, err
		}
		input.Script = script
	}
	if app.transcriber != nil {
		segments, err := app.transcriber.Transcript()
		if err != nil {
			return input, err
		}
		input.Segments = segments
	}

	return input, nil
}

// persist writes the SRT, the style sidecar, and the QC report
func (app *Application) persist(result *PipelineResult) error {
	if err := app.writeFile(app.config.GetSubtitlePath(), result.SRT); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}
	if err := app.writeFile(app.config.GetStylePath(), subtitle.RenderStyleSidecar(result.Style)); err != nil {
		return fmt.Errorf("failed to write style sidecar: %w", err)
	}
	if err := app.reportOutput.WriteReport(result.Report); err != nil {
		return fmt.Errorf("failed to write QC report: %w", err)
	}
	return nil
}

// writeFile writes content atomically via a temp file in the target directory
func (app *Application) writeFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move temp file into place: %w", err)
	}

	app.zapLogger.Info("artifact written", zap.String("path", path))
	return nil
}
