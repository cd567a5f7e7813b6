package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"captionforge/internal/app"
	"captionforge/internal/layout"
)

// main is the application entry point and orchestrator setup
func main() {
	// Parse command line flags
	var (
		helpFlag    = flag.Bool("help", false, "Show help message")
		versionFlag = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *helpFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag {
		printVersion()
		os.Exit(0)
	}

	// Run the main application logic
	if err := runApplication(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// runApplication contains the core application logic that can be tested
func runApplication() error {
	// Create structured logger for main
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	// Log application startup
	logger.Info("CaptionForge starting up",
		zap.String("component", "main"),
		zap.String("version", "1.2"))

	// Create application instance using orchestrator
	application, err := app.NewApplication()
	if err != nil {
		logger.Error("Failed to create application",
			zap.Error(err),
			zap.String("component", "main"))
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start signal handler goroutine
	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
			zap.String("component", "main"))
		cancel()
	}()

	if err := application.Run(ctx); err != nil {
		logger.Error("Caption synthesis failed",
			zap.Error(err),
			zap.String("component", "main"))
		return fmt.Errorf("caption synthesis failed: %w", err)
	}

	logger.Info("CaptionForge finished successfully",
		zap.String("component", "main"))
	return nil
}

// printHelp displays command line usage information
func printHelp() {
	fmt.Println("CaptionForge - Caption Synthesis and Quality Control")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    captionforge [OPTIONS]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    -help      Show this help message")
	fmt.Println("    -version   Show version information")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Println("    Set CONFIG_PATH to load a YAML config file, otherwise")
	fmt.Println("    options are read from CAPTIONFORGE_* environment variables.")
	fmt.Println("    See config.example.yaml for available options.")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("    CAPTIONFORGE_SCRIPT_PATH=script.txt \\")
	fmt.Println("    CAPTIONFORGE_TRANSCRIPT_PATH=transcript.jsonl \\")
	fmt.Println("    CAPTIONFORGE_AUDIO_DURATION_S=66.56 captionforge")
	fmt.Println()
	fmt.Println("    CONFIG_PATH=config.yaml captionforge")
}

// printVersion displays version and build information
func printVersion() {
	fmt.Println("CaptionForge")
	fmt.Println("Version: 1.2")
	fmt.Println("Build: Caption Synthesis Pipeline")
	fmt.Printf("Render profiles: %v\n", layout.ProfileNames())
}
