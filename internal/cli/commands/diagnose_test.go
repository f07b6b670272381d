package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDiagnoseCommand(t *testing.T) {
	cmd := NewDiagnoseCommand()

	if cmd.Use != "diagnose <export-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if cmd.Flags().Lookup("verbose") == nil {
		t.Error("Missing verbose flag")
	}
}

func TestCheckExportExists(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	full := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(full, []byte(sampleExport), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		path       string
		wantStatus string
		wantMsg    string
	}{
		{"missing", "/nonexistent/chat.txt", "error", "not found"},
		{"empty", empty, "error", "empty"},
		{"directory", dir, "error", "directory"},
		{"ok", full, "ok", "Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := checkExportExists(tt.path)
			if result.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", result.Status, tt.wantStatus)
			}
			if !strings.Contains(result.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want %q", result.Message, tt.wantMsg)
			}
		})
	}
}

func TestCheckParse(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    map[string]string
	}{
		{
			name:    "clean export",
			content: sampleExport,
			want:    map[string]string{"Messages": "ok", "Dropped Lines": "ok"},
		},
		{
			name:    "leading junk",
			content: "exported by some tool\n" + sampleExport,
			want:    map[string]string{"Messages": "ok", "Dropped Lines": "error"},
		},
		{
			name:    "no messages",
			content: "hello\nworld\n",
			want:    map[string]string{"Messages": "error", "Dropped Lines": "error"},
		},
		{
			name:    "swapped dates",
			content: "13/1/23, 9:00 AM - Alice: hi\n",
			want:    map[string]string{"Messages": "ok", "Date Order": "warning"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".txt")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			got := map[string]string{}
			for _, r := range checkParse(context.Background(), path, &DiagnoseOptions{}) {
				got[r.Check] = r.Status
			}
			for check, status := range tt.want {
				if got[check] != status {
					t.Errorf("%s = %q, want %q (all: %v)", check, got[check], status, got)
				}
			}
		})
	}
}

func TestRunDiagnose(t *testing.T) {
	dir := setupEnv(t)
	exportPath := writeFile(t, dir, "chat.txt", sampleExport)
	Global.ConfigPath = writeFile(t, dir, "config.yaml", "webhooks:\n  - name: team\n    url: https://example.com/hook\n")

	cmd := NewDiagnoseCommand()
	cmd.SetArgs([]string{exportPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"[PASS] Export File",
		"[PASS] Export Format",
		"[PASS] Messages",
		"[PASS] Config File",
		"[PASS] Webhook: team",
		"0 errors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDiagnose_MissingExport(t *testing.T) {
	setupEnv(t)

	var buf bytes.Buffer
	if err := runDiagnose(context.Background(), &buf, "/nonexistent/chat.txt", &DiagnoseOptions{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "[FAIL] Export File") || strings.Contains(out, "Export Format") {
		t.Errorf("output:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate(strings.Repeat("é", 20), 10); got != strings.Repeat("é", 7)+"..." {
		t.Errorf("truncate = %q", got)
	}
}
