package simulate

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Run executes one scripted conversation against a live instance: submit
// every segment in order, end the session, then read back the record set
// and optionally resolve a query.
func Run(ctx context.Context, config *Config) error {
	start := time.Now()
	client := newHTTPClient(config.Timeout)
	script := buildScript(config.People)
	stats := &Stats{}

	log.Printf("submitting %d segments to %s (session %s)", len(script), config.BaseURL, config.SessionID)

	for _, seg := range script {
		select {
		case <-ctx.Done():
			return fmt.Errorf("simulation canceled: %w", ctx.Err())
		default:
		}

		if postSegment(ctx, client, config.BaseURL, config.SessionID, seg) {
			stats.SegmentsSubmitted++
		} else {
			stats.SegmentsFailed++
		}
		if config.Verbose {
			log.Printf("segment %s", describe(seg))
		}
		if config.SegmentDelay > 0 {
			time.Sleep(config.SegmentDelay)
		}
	}

	if err := endSession(ctx, client, config.BaseURL, config.SessionID); err != nil {
		return err
	}

	records, err := fetchRecords(ctx, client, config.BaseURL)
	if err != nil {
		return err
	}
	stats.RecordsFinal = len(records)

	if config.Query != "" {
		name, err := resolveQuery(ctx, client, config.BaseURL, config.Query)
		if err != nil {
			return err
		}
		stats.MatchName = name
	}

	stats.Elapsed = time.Since(start)
	report(stats, records, config)
	return nil
}

// report prints the final summary.
func report(stats *Stats, records []recordView, config *Config) {
	log.Printf(`simulation finished in %s
   segments submitted: %d
   segments failed:    %d
   records:            %d`,
		stats.Elapsed.Round(time.Millisecond),
		stats.SegmentsSubmitted,
		stats.SegmentsFailed,
		stats.RecordsFinal,
	)
	for _, r := range records {
		log.Printf("   record %.8s  %-20s %-16s %s", r.ID, r.Name, r.Company, r.Role)
	}
	if config.Query != "" {
		if stats.MatchName == "" {
			log.Printf("   query %q matched nothing", config.Query)
		} else {
			log.Printf("   query %q matched %s", config.Query, stats.MatchName)
		}
	}
}
