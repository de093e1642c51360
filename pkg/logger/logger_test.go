package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	// Logging through every level must not panic.
	ctx := context.Background()
	logger.Debug(ctx, "debug message", String("key", "value"))
	logger.Info(ctx, "info message", Int("count", 3))
	logger.Warn(ctx, "warn message", Bool("flag", true))
	logger.Error(ctx, "error message", Float64("score", 92.5))
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	named := Get().Named("worker")
	if named == nil {
		t.Fatal("named logger is nil")
	}
	named.Info(context.Background(), "named logger message")

	// Package-level helper follows the same path.
	Named("scheduler").Info(context.Background(), "helper message")
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	cases := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", 0, true},
	}

	for _, tc := range cases {
		err := SetLevelString(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("SetLevelString(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("SetLevelString(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got := levelVar.Level(); got != tc.want {
			t.Errorf("SetLevelString(%q): level = %v, want %v", tc.input, got, tc.want)
		}
	}

	// Restore the default for other tests.
	SetLevel(slog.LevelInfo)
}

func TestFieldConstructors(t *testing.T) {
	if f := String("k", "v"); f.Key != "k" || f.Value != "v" {
		t.Errorf("String field mismatch: %+v", f)
	}
	if f := Int("n", 7); f.Value != 7 {
		t.Errorf("Int field mismatch: %+v", f)
	}
	if f := Any("x", []int{1, 2}); f.Key != "x" {
		t.Errorf("Any field mismatch: %+v", f)
	}
	if f := Error(context.DeadlineExceeded); f.Key != "error" {
		t.Errorf("Error field mismatch: %+v", f)
	}
}
