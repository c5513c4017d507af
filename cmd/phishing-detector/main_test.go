package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var modelFlags = []string{
	"--vectorizer", filepath.Join("..", "..", "models", "vectorizer.json"),
	"--model", filepath.Join("..", "..", "models", "model.json"),
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAnalyze_FilesInOrder(t *testing.T) {
	dir := t.TempDir()
	phishing := writeFile(t, dir, "phishing.txt", "URGENT: verify your password now at http://bit.ly/xyz")
	legitimate := writeFile(t, dir, "legitimate.txt", "Thank you for your order. It has shipped.")

	args := append([]string{"analyze", "--output", "json", "--concurrency", "2"}, modelFlags...)
	out, _, err := execute(t, "", append(args, phishing, legitimate)...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, phishing, first["source"])
	assert.Equal(t, "Phishing", first["label"])
	assert.Equal(t, legitimate, second["source"])
	assert.Equal(t, "Legitimate", second["label"])
}

func TestAnalyze_Stdin(t *testing.T) {
	out, _, err := execute(t, "Please verify your password immediately", append([]string{"analyze"}, modelFlags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Source: stdin\n")
	assert.Contains(t, out, "Verdict: PHISHING DETECTED\n")
}

func TestAnalyze_RepeatedStdinReadsOnce(t *testing.T) {
	args := append([]string{"analyze", "--concurrency", "4"}, modelFlags...)
	out, _, err := execute(t, "Please verify your password immediately", append(args, "-", "-", "-")...)
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, "Source: stdin\n"))
	assert.Equal(t, 3, strings.Count(out, "Verdict: PHISHING DETECTED\n"))
	assert.NotContains(t, out, "Error:")
}

func TestAnalyze_FailureExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "Thank you for your order")

	args := append([]string{"analyze"}, modelFlags...)
	out, _, err := execute(t, "", append(args, good, filepath.Join(dir, "missing.txt"))...)

	assert.ErrorIs(t, err, errSomeFailed)
	assert.Contains(t, out, "Verdict: EMAIL IS SAFE")
	assert.Contains(t, out, "Error: failed to open input file")
}

func TestAnalyze_MissingModel(t *testing.T) {
	_, _, err := execute(t, "hello", "analyze", "--model", filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	out, _, err := execute(t, "act now: send your ssn to http://tinyurl.com/x", "scan", "--model", "/nonexistent.json")
	require.NoError(t, err)

	assert.Contains(t, out, `Suspicious URLs: ["http://tinyurl.com/x"]`)
	assert.Contains(t, out, `Urgent phrases: ["act now"]`)
	assert.Contains(t, out, `Personal information requests: ["ssn"]`)
}

func TestInteractive(t *testing.T) {
	out, _, err := execute(t, ":sample phishing\n.\n:quit\n", append([]string{"interactive"}, modelFlags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Sample Phishing Email Loaded")
	assert.Contains(t, out, "Analysis Complete - Phishing Detected")
}

func TestRoot_RunsConfiguredFilter(t *testing.T) {
	out, _, err := execute(t, "see you at lunch", modelFlags...)
	require.NoError(t, err)

	assert.Contains(t, out, "=== Results ===")
}

func TestConfigShow(t *testing.T) {
	out, _, err := execute(t, "", "config", "show", "--trusted", "bank.example", "--no-cache")
	require.NoError(t, err)

	var settings map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &settings))

	model, ok := settings["model"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "linear", model["provider"])

	cacheSettings, ok := settings["cache"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, cacheSettings["enabled"])
}

func TestMetricsDump(t *testing.T) {
	_, errOut, err := execute(t, "verify your password", append([]string{"analyze", "--metrics"}, modelFlags...)...)
	require.NoError(t, err)

	assert.Contains(t, errOut, `phishing_detector_analyses_total{label="Phishing",source="logistic_regression"} 1`)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)

	assert.Equal(t, "phishing-detector dev\n", out)
}
