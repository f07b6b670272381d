package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/output"
)

func TestShouldFireWebhook(t *testing.T) {
	tests := []struct {
		name    string
		trigger config.WebhookTrigger
		hasData bool
		want    bool
	}{
		{"on_data with data", config.WebhookTriggerOnData, true, true},
		{"on_data without data", config.WebhookTriggerOnData, false, false},
		{"always with data", config.WebhookTriggerAlways, true, true},
		{"always without data", config.WebhookTriggerAlways, false, true},
		{"never with data", config.WebhookTriggerNever, true, false},
		{"never without data", config.WebhookTriggerNever, false, false},
		{"empty trigger with data", "", true, true},
		{"empty trigger without data", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldFireWebhook(tt.trigger, tt.hasData)
			if got != tt.want {
				t.Errorf("shouldFireWebhook(%q, %v) = %v, want %v",
					tt.trigger, tt.hasData, got, tt.want)
			}
		})
	}
}

func TestCollectWebhooks(t *testing.T) {
	cfg := &config.Config{
		Webhooks: []config.WebhookConfig{
			{Name: "team", URL: "https://example.com/team"},
			{Name: "archive", URL: "https://example.com/archive"},
		},
	}

	t.Run("config only", func(t *testing.T) {
		webhooks := collectWebhooks(cfg, &AnalyzeOptions{})
		if len(webhooks) != 2 {
			t.Errorf("got %d webhooks, want 2", len(webhooks))
		}
	})

	t.Run("config and cli", func(t *testing.T) {
		webhooks := collectWebhooks(cfg, &AnalyzeOptions{
			WebhookURL:   "https://example.com/cli",
			WebhookToken: "tok",
		})
		if len(webhooks) != 3 {
			t.Fatalf("got %d webhooks, want 3", len(webhooks))
		}
		cli := webhooks[2]
		if cli.Name != "cli" || cli.Token != "tok" || cli.Trigger != config.WebhookTriggerOnData {
			t.Errorf("cli webhook = %+v", cli)
		}
		if cli.Timeout != config.DefaultWebhookTimeout {
			t.Errorf("Timeout = %v", cli.Timeout)
		}
	})

	t.Run("cli trigger", func(t *testing.T) {
		webhooks := collectWebhooks(&config.Config{}, &AnalyzeOptions{
			WebhookURL:     "https://example.com/cli",
			WebhookTrigger: "always",
		})
		if len(webhooks) != 1 || webhooks[0].Trigger != config.WebhookTriggerAlways {
			t.Errorf("webhooks = %+v", webhooks)
		}
	})
}

func TestRunAnalyze_Text(t *testing.T) {
	dir := setupEnv(t)
	exportPath := writeFile(t, dir, "chat.txt", sampleExport)

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{exportPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}

	out := buf.String()
	for _, want := range []string{"[BASIC]", "[USERS]", "Alice", "https://example.com", "Summary: 6 messages, 3 participants"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunAnalyze_JSONWithViews(t *testing.T) {
	dir := setupEnv(t)
	exportPath := writeFile(t, dir, "chat.txt", sampleExport)

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{"-o", "json", "--view", "basic", "--view", "users", exportPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var report output.Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Analysis.BasicStats == nil || len(report.Analysis.UserStats) != 3 {
		t.Errorf("analysis = %+v", report.Analysis)
	}
	if report.Analysis.WordUsage != nil {
		t.Error("word usage should not be computed")
	}
	if report.Summary.ViewsComputed != 2 {
		t.Errorf("ViewsComputed = %d, want 2", report.Summary.ViewsComputed)
	}
	if report.Parse == nil || report.Parse.Continuations != 1 {
		t.Errorf("parse stats = %+v", report.Parse)
	}
}

func TestRunAnalyze_Since(t *testing.T) {
	dir := setupEnv(t)
	exportPath := writeFile(t, dir, "chat.txt", sampleExport)

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{"-q", "--since", "2023-12-02", exportPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "chatstat: 2 messages, 2 participants") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunAnalyze_NoMessages(t *testing.T) {
	dir := setupEnv(t)
	exportPath := writeFile(t, dir, "chat.txt", "nothing here\nat all\n")

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{"-q", exportPath})
	cmd.SetOut(&bytes.Buffer{})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
}

func TestRunAnalyze_Errors(t *testing.T) {
	dir := setupEnv(t)
	exportPath := writeFile(t, dir, "chat.txt", sampleExport)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing file", []string{"/nonexistent/chat.txt"}, "opening export"},
		{"bad output", []string{"-o", "xml", exportPath}, "unknown output format"},
		{"bad view", []string{"--view", "horoscope", exportPath}, "unknown view"},
		{"bad since", []string{"--since", "yesterday", exportPath}, "invalid --since"},
		{"missing stop words", []string{"--stop-words", "/nonexistent/stop.txt", exportPath}, "stop words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewAnalyzeCommand()
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})

			err := cmd.ExecuteContext(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunAnalyze_Webhook(t *testing.T) {
	dir := setupEnv(t)
	exportPath := writeFile(t, dir, "chat.txt", sampleExport)

	var mu sync.Mutex
	var bodies [][]byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cmd := NewAnalyzeCommand()
	cmd.SetArgs([]string{"-q", "--webhook-url", server.URL, exportPath})
	cmd.SetOut(&bytes.Buffer{})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 1 {
		t.Fatalf("webhook calls = %d, want 1", len(bodies))
	}
	var report output.Report
	if err := json.Unmarshal(bodies[0], &report); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if report.Summary.Messages != 6 {
		t.Errorf("Summary.Messages = %d, want 6", report.Summary.Messages)
	}
}

var dataIDPattern = regexp.MustCompile(`Data ID: ([0-9a-f-]{36})`)

func TestParseThenReport(t *testing.T) {
	dir := setupEnv(t)
	exportPath := writeFile(t, dir, "chat.txt", sampleExport)

	parseCmd := NewParseCommand()
	parseCmd.SetArgs([]string{exportPath})
	var parseOut bytes.Buffer
	parseCmd.SetOut(&parseOut)

	if err := parseCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	m := dataIDPattern.FindStringSubmatch(parseOut.String())
	if m == nil {
		t.Fatalf("no data id in output:\n%s", parseOut.String())
	}
	if !strings.Contains(parseOut.String(), "Parsed 6 messages") {
		t.Errorf("parse output = %q", parseOut.String())
	}

	reportCmd := NewReportCommand()
	reportCmd.SetArgs([]string{"-o", "json", m[1]})
	var reportOut bytes.Buffer
	reportCmd.SetOut(&reportOut)

	if err := reportCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("report failed: %v", err)
	}

	var report output.Report
	if err := json.Unmarshal(reportOut.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Summary.Messages != 6 || report.Metadata.DataID != m[1] {
		t.Errorf("report = %+v", report.Summary)
	}
	if report.Parse != nil {
		t.Error("stored records carry no parse stats")
	}
}

func TestAnalyzeSaveThenReport_SQLite(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv(config.EnvStoreBackend, "sqlite")
	t.Setenv(config.EnvStorePath, dir+"/chat.db")
	exportPath := writeFile(t, dir, "chat.txt", sampleExport)

	analyzeCmd := NewAnalyzeCommand()
	analyzeCmd.SetArgs([]string{"--save", exportPath})
	var analyzeOut bytes.Buffer
	analyzeCmd.SetOut(&analyzeOut)

	if err := analyzeCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	m := dataIDPattern.FindStringSubmatch(analyzeOut.String())
	if m == nil {
		t.Fatalf("no data id in output:\n%s", analyzeOut.String())
	}

	reportCmd := NewReportCommand()
	reportCmd.SetArgs([]string{"-q", m[1]})
	var reportOut bytes.Buffer
	reportCmd.SetOut(&reportOut)

	if err := reportCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.HasPrefix(reportOut.String(), "chatstat: 6 messages") {
		t.Errorf("report output = %q", reportOut.String())
	}
}

func TestRunReport_UnknownID(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name    string
		id      string
		wantErr string
	}{
		{"not found", "3f2b8c9e-7d4a-4a35-9f57-0c1e2d3b4a5f", "no saved records"},
		{"not a uuid", "../../etc/passwd", "invalid data id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewReportCommand()
			cmd.SetArgs([]string{tt.id})
			cmd.SetOut(&bytes.Buffer{})

			err := cmd.ExecuteContext(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
