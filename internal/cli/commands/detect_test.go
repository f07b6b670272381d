package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/detector"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

func TestNewDetectCommand(t *testing.T) {
	cmd := NewDetectCommand()

	if cmd.Use != "detect <export-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	for _, flag := range []string{"output", "sample", "all", "write-config"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestOutputDetectText_NoMatch(t *testing.T) {
	result := &detector.DetectionResult{SampledLines: 100}

	var buf bytes.Buffer
	if err := outputDetectText(&buf, result, "/test/chat.txt", &DetectOptions{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No export format detected") {
		t.Error("Expected 'No export format detected' message")
	}
}

func TestOutputDetectText_WithMatch(t *testing.T) {
	result := &detector.DetectionResult{
		Matches: []detector.FormatMatch{
			{Hint: parser.IOS24, Name: "iOS 24-hour", Confidence: 0.95, MatchCount: 95, SampleLine: "[01/12/23, 21:00:00] Alice: hi"},
			{Hint: parser.Android24, Name: "Android 24-hour", Confidence: 0.05, MatchCount: 5},
		},
		SampledLines:  100,
		ParsedLines:   95,
		DateOrder:     detector.Ambiguous,
		AmbiguityNote: "Test ambiguity note",
	}

	var buf bytes.Buffer
	if err := outputDetectText(&buf, result, "/test/chat.txt", &DetectOptions{ShowAll: true}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"iOS 24-hour (ios24)", "95.0%", "Date order: ambiguous", "Test ambiguity note", "2. Android 24-hour"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestOutputDetectJSON(t *testing.T) {
	result := &detector.DetectionResult{
		Matches: []detector.FormatMatch{
			{Hint: parser.Android12, Name: "Android 12-hour", Confidence: 0.9, MatchCount: 9},
			{Hint: parser.IOS12, Name: "iOS 12-hour", Confidence: 0.1, MatchCount: 1},
		},
		SampledLines: 10,
		ParsedLines:  9,
		DateOrder:    detector.MonthFirst,
	}

	tests := []struct {
		name        string
		showAll     bool
		wantMatches int
	}{
		{"best only", false, 1},
		{"all", true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := outputDetectJSON(&buf, result, "chat.txt", &DetectOptions{ShowAll: tt.showAll}); err != nil {
				t.Fatal(err)
			}
			var out JSONOutput
			if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if len(out.Matches) != tt.wantMatches {
				t.Errorf("matches = %d, want %d", len(out.Matches), tt.wantMatches)
			}
			if out.Matches[0].Hint != "android12" || out.DateOrder != "month_first" {
				t.Errorf("out = %+v", out)
			}
		})
	}
}

func TestRunDetect(t *testing.T) {
	dir := setupEnv(t)
	exportPath := writeFile(t, dir, "chat.txt", sampleExport)

	cmd := NewDetectCommand()
	cmd.SetArgs([]string{exportPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Detected Format: Android 12-hour") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestRunDetect_MissingFile(t *testing.T) {
	setupEnv(t)
	cmd := NewDetectCommand()
	cmd.SetArgs([]string{"/nonexistent/chat.txt"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v", err)
	}
}

func TestRunDetect_WriteConfig(t *testing.T) {
	dir := setupEnv(t)
	exportPath := writeFile(t, dir, "chat.txt", sampleExport)
	configPath := filepath.Join(dir, "chatstat.yaml")

	cmd := NewDetectCommand()
	cmd.SetArgs([]string{"-w", configPath, exportPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Wrote starter config") {
		t.Error("missing confirmation")
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "# Detected format: Android 12-hour") {
		t.Errorf("header missing:\n%s", content)
	}

	// The generated file must load as a valid config.
	var cfg config.Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		t.Fatalf("generated config is not YAML: %v", err)
	}
	if _, err := config.Load(context.Background(), configPath); err != nil {
		t.Errorf("generated config does not load: %v", err)
	}

	// A second run must not overwrite.
	cmd = NewDetectCommand()
	cmd.SetArgs([]string{"-w", configPath, exportPath})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("expected error when config exists")
	}
}
