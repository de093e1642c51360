package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Naveen701372/Networking-Wingman/internal/simulate"
)

// Default configuration constants.
const (
	defaultPeople     = 4
	defaultDelay      = 200 * time.Millisecond
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9090", "Base URL of the service")
		sessionID = flag.String("session", "", "Session id to submit under (default: random)")
		people    = flag.Int("people", defaultPeople, "Number of conversation partners in the script")
		delay     = flag.Duration("delay", defaultDelay, "Pause between segments")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		query     = flag.String("query", "", "Free-text query to resolve after the session ends")
		logFile   = flag.String("log", "", "Log file for output (default: simulate_log_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable per-segment logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	// Setup logging
	if err := simulate.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	sid := *sessionID
	if sid == "" {
		sid = uuid.NewString()
	}

	config := &simulate.Config{
		BaseURL:      *baseURL,
		SessionID:    sid,
		People:       *people,
		SegmentDelay: *delay,
		Timeout:      *timeout,
		Query:        *query,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
