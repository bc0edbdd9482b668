package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivia/internal/trivia/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "trivia dev"))
}

func TestRunWithNoSourcesWritesEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "preguntas_del_dia.json")
	metricsFile := filepath.Join(dir, "trivia.prom")
	cfg := writeConfig(t, `
classifier:
  provider: none
sources: []
`)

	out, _, err := execute(t, "run", "--config", cfg, "--output", output, "--metrics-file", metricsFile)
	require.NoError(t, err)

	assert.Contains(t, out, `"total_count": 0`)
	assert.Contains(t, out, "Saved to: "+output)
	assert.Contains(t, out, "SUMMARY (0 questions)")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var result models.AggregationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, 0, result.TotalCount)
	assert.Empty(t, result.Questions)
	assert.NotEmpty(t, result.RunID)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "trivia_last_run_questions 0")
}

func TestRunSkipsUnreachableSource(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.json")
	cfg := writeConfig(t, `
fetch_timeout: 2s
classifier:
  provider: keyword
sources:
  - name: Redis
    type: keyvalue
    enabled: true
    dsn: redis://127.0.0.1:1/0
`)

	out, errOut, err := execute(t, "run", "--config", cfg, "--output", output, "--json")
	require.NoError(t, err, "an unreachable source never fails the run")

	assert.NotContains(t, out, "SUMMARY")
	assert.NotContains(t, out, "Saved to")
	assert.Contains(t, errOut, "Saved to: "+output)
	var printed models.AggregationResult
	require.NoError(t, json.Unmarshal([]byte(out), &printed), "--json stdout is a single JSON document")
	assert.Equal(t, 0, printed.TotalCount)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var result models.AggregationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, 0, result.TotalCount)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, models.SourceRedis, result.Skipped[0].Source)
	assert.Equal(t, models.KindSourceUnavailable, result.Skipped[0].Kind)
}

func TestRunUnwritableOutputFails(t *testing.T) {
	cfg := writeConfig(t, `
classifier:
  provider: none
sources: []
`)
	_, _, err := execute(t, "run", "--config", cfg, "--output", filepath.Join(t.TempDir(), "missing", "out.json"))
	assert.Error(t, err)
}

func TestRunInvalidConfigFails(t *testing.T) {
	cfg := writeConfig(t, `
sources:
  - name: Oracle
    type: relational
    enabled: true
    driver: mysql
    dsn: x
`)
	_, _, err := execute(t, "run", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestCheckReportsUnreachableSource(t *testing.T) {
	cfg := writeConfig(t, `
fetch_timeout: 2s
sources:
  - name: Redis
    type: keyvalue
    enabled: true
    dsn: redis://127.0.0.1:1/0
`)

	out, _, err := execute(t, "check", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, out, "Redis")
	assert.Contains(t, out, "FAIL source_unavailable")
	assert.Contains(t, err.Error(), "1 of 1 sources unreachable")
}

func TestCheckWithNoSources(t *testing.T) {
	cfg := writeConfig(t, "sources: []\n")
	_, _, err := execute(t, "check", "--config", cfg)
	assert.NoError(t, err)
}
