package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureRunOutput(t *testing.T, ctx context.Context, args []string) (string, error) {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	runErr := run(ctx, args)
	_ = w.Close()
	os.Stdout = orig
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read captured output: %v", err)
	}
	return string(data), runErr
}

func outputField(t *testing.T, output, key string) string {
	t.Helper()
	for _, field := range strings.Fields(output) {
		if strings.HasPrefix(field, key+"=") {
			return strings.TrimPrefix(field, key+"=")
		}
	}
	t.Fatalf("field %s not found in output %q", key, output)
	return ""
}

func TestRunRequiresCommand(t *testing.T) {
	err := run(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "missing command") {
		t.Fatalf("expected missing command error, got %v", err)
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"bogus"})
	if err == nil || !strings.Contains(err.Error(), "unknown command: bogus") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if !strings.Contains(err.Error(), "usage:") {
		t.Fatalf("expected usage hint, got %v", err)
	}
}

func TestInitCommandMemoryStore(t *testing.T) {
	output, err := captureRunOutput(t, context.Background(), []string{"init", "--store", "memory"})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(output, "initialized store=memory") {
		t.Fatalf("unexpected init output: %q", output)
	}
}

func TestConfigCommandWritesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ontogen.yaml")
	output, err := captureRunOutput(t, context.Background(), []string{"config", "--out", path})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(output, "config written path="+path) {
		t.Fatalf("unexpected config output: %q", output)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	for _, section := range []string{"grid:", "develop:", "run:", "storage:"} {
		if !strings.Contains(string(data), section) {
			t.Fatalf("config file missing %s section:\n%s", section, data)
		}
	}
}

func TestGenomeCommandPrintsRecord(t *testing.T) {
	output, err := captureRunOutput(t, context.Background(), []string{
		"genome", "--store", "memory", "--seed", "7", "--size", "2000",
	})
	if err != nil {
		t.Fatalf("genome: %v", err)
	}
	if outputField(t, output, "genome_id") == "" {
		t.Fatalf("expected genome id in output %q", output)
	}
	if got := outputField(t, output, "bytes"); got != "2000" {
		t.Fatalf("unexpected genome size %s in output %q", got, output)
	}
}

func TestBatchCommandWritesArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	output, err := captureRunOutput(t, context.Background(), []string{
		"batch", "--store", "memory", "--output", dir,
		"--seeds", "2", "--seed", "9", "--workers", "2",
		"--horizon", "30", "--size", "3000",
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if !strings.Contains(output, "batch completed seeds=2") {
		t.Fatalf("unexpected batch output: %q", output)
	}

	data, err := os.ReadFile(filepath.Join(dir, "batch.csv"))
	if err != nil {
		t.Fatalf("read batch.csv: %v", err)
	}
	lines := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	if lines != 3 {
		t.Fatalf("expected header plus two batch rows, got %d lines", lines)
	}

	summaryData, err := os.ReadFile(filepath.Join(dir, "batch_summary.json"))
	if err != nil {
		t.Fatalf("read batch_summary.json: %v", err)
	}
	var summary struct {
		Seeds int `json:"seeds"`
	}
	if err := json.Unmarshal(summaryData, &summary); err != nil {
		t.Fatalf("decode batch summary: %v", err)
	}
	if summary.Seeds != 2 {
		t.Fatalf("unexpected summary seeds: %d", summary.Seeds)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("expected config snapshot: %v", err)
	}
}

func TestRunsCommandEmptyStore(t *testing.T) {
	output, err := captureRunOutput(t, context.Background(), []string{"runs", "--store", "memory"})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if !strings.Contains(output, "no runs found") {
		t.Fatalf("unexpected runs output: %q", output)
	}
}

func TestRunsCommandRejectsBadLimit(t *testing.T) {
	err := run(context.Background(), []string{"runs", "--store", "memory", "--limit", "0"})
	if err == nil || !strings.Contains(err.Error(), "limit must be > 0") {
		t.Fatalf("expected limit error, got %v", err)
	}
}
