package simulate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Naveen701372/Networking-Wingman/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "simulate_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the conversation simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Wingman Conversation Simulator
==============================

Replays a scripted networking conversation against a running instance.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -session string
        Session id to submit under (default: random)
  -people int
        Number of conversation partners in the script (default 4)
  -delay duration
        Pause between segments (default 200ms)
  -timeout duration
        HTTP request timeout (default 30s)
  -query string
        Free-text query to resolve after the session ends
  -log string
        Log file for output (default: simulate_log_TIMESTAMP.log)
  -verbose
        Enable per-segment logging
  -help
        Show this help message

Examples:
  # Replay the default script
  go run cmd/simulate/main.go

  # Longer conversation, then resolve a description
  go run cmd/simulate/main.go -people 8 -query "works at Stripe on payments"
`)
}
