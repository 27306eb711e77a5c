package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestParseReplayLine(t *testing.T) {
	msg, err := parseReplayLine(`{"method":"onLoginStarted","message":{"provider":0,"payload":"{}"}}`)
	require.NoError(t, err)
	assert.Equal(t, "onLoginStarted", msg.Method)
	assert.JSONEq(t, `{"provider":0,"payload":"{}"}`, msg.Message)

	msg, err = parseReplayLine(`{"method":"onLogoutStarted","message":"{\"provider\":1}"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"provider":1}`, msg.Message)

	_, err = parseReplayLine(`not json`)
	assert.Error(t, err)
}

func TestReplayCountsRejectedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"method":"onLogoutStarted","message":{"provider":1}}`,
		`# comment lines are skipped`,
		`{"method":"onLogoutStarted","message":{"provider":99}}`,
		`{"method":"onTeleport","message":{}}`,
		``,
	}, "\n")

	stdout, stderr, err := runCLI(t, input, "replay", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "replayed 3 notifications: 1 handled, 2 rejected")
	assert.Contains(t, stderr, "line 3:")
	assert.Contains(t, stderr, "line 4:")
}

func TestReplayStrictStopsAtFirstFailure(t *testing.T) {
	input := `{"method":"onTeleport","message":{}}` + "\n" + `{"method":"onLogoutStarted","message":{"provider":1}}`
	stdout, _, err := runCLI(t, input, "replay", "--strict", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, stdout, "replayed 1 notifications: 0 handled, 1 rejected")
}

func TestJournalReadsPersistedEntries(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "relay.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("journal:\n  enabled: true\nlogging:\n  level: error\n"), 0o600))

	input := `{"method":"onLoginStarted","message":{"provider":2,"payload":"{\"payload\":\"x\"}"}}` + "\n" +
		`{"method":"onLoginFailed","message":{"provider":2}}`
	_, _, err := runCLI(t, input, "replay", "--config", cfgPath, "--db", dbPath)
	require.NoError(t, err)

	stdout, _, err := runCLI(t, "", "journal", "--config", cfgPath, "--db", dbPath, "--status", "rejected", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"method": "onLoginFailed"`)
	assert.NotContains(t, stdout, `"method": "onLoginStarted"`)
}

func TestRewardsRegisterAndMethods(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "relay.db")
	stdout, _, err := runCLI(t, "", "rewards", "register", "daily-share", "--db", dbPath, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "reward daily-share registered")

	stdout, _, err = runCLI(t, "", "methods", "--log-level", "error")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 23)
	assert.Equal(t, "onProfileInitialized", lines[0])
}

func TestLogFileFlagWritesThroughRotator(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "relay.log")
	input := `{"method":"onTeleport","message":{}}`
	_, _, err := runCLI(t, input, "replay", "--log-file", logPath, "--log-level", "warn")
	require.NoError(t, err)

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "notification rejected")
}
