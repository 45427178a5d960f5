package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"trip-planner-service/internal/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"simulate", "rules"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	outputFlag := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.Equal(t, "text", outputFlag.DefValue)
}

func TestSimulateJSON(t *testing.T) {
	out, _, err := execute(t, "simulate", "--start", "2026-01-05T08:00:00Z", "--minutes", "1500", "--cycle-hours", "0", "-o", "json")
	require.NoError(t, err)

	var res dto.SimulateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Logs, 3)
	driving := 0
	for _, d := range res.Logs {
		driving += d.Totals.Driving
	}
	assert.Equal(t, 1500, driving)
	assert.InDelta(t, 25.0, res.CycleHoursUsed, 1e-9)
}

func TestSimulateYAML(t *testing.T) {
	out, _, err := execute(t, "simulate", "--start", "2026-01-05T08:00", "--minutes", "300", "-o", "yaml")
	require.NoError(t, err)

	var res dto.SimulateResponse
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.Len(t, res.Logs, 1)
	assert.Equal(t, "2026-01-05", res.Logs[0].Date)
	assert.Equal(t, "2026-01-05T08:00:00Z", res.Logs[0].Entries[0].Start)
}

func TestSimulateText(t *testing.T) {
	out, _, err := execute(t, "simulate", "--start", "2026-01-05T08:00:00Z", "--minutes", "600")
	require.NoError(t, err)

	assert.Contains(t, out, "Day 1  2026-01-05")
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "break")
	assert.Contains(t, out, "Totals: driving=600 on_duty_not_driving=30 off_duty=0 sleeper=0")
	assert.Contains(t, out, "Cycle hours used: 10.00")
	assert.NotContains(t, out, "Day 2")
}

func TestSimulateZeroMinutes(t *testing.T) {
	out, _, err := execute(t, "simulate", "--start", "2026-01-05T08:00:00Z", "--minutes", "0", "--cycle-hours", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "No driving time")
	assert.Contains(t, out, "Cycle hours used: 12.00")
}

func TestSimulateWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.json")

	out, errOut, err := execute(t, "simulate", "--start", "2026-01-05T08:00:00Z", "--minutes", "120", "-o", "json", "--out", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(b))
	assert.Contains(t, string(b), `"logs"`)
}

func TestSimulateErrors(t *testing.T) {
	cases := map[string][]string{
		"bad output":     {"simulate", "--start", "2026-01-05T08:00:00Z", "--minutes", "10", "-o", "xml"},
		"bad start":      {"simulate", "--start", "soon", "--minutes", "10"},
		"missing start":  {"simulate", "--minutes", "10"},
		"negative total": {"simulate", "--start", "2026-01-05T08:00:00Z", "--minutes", "-10"},
		"negative cycle": {"simulate", "--start", "2026-01-05T08:00:00Z", "--minutes", "10", "--cycle-hours", "-2"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := execute(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestRulesText(t *testing.T) {
	out, _, err := execute(t, "rules")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "660 min")
	assert.Contains(t, lines[5], "34 h")
}
