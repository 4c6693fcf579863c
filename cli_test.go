package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pbl-cardgame/internal/card"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func withTempDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "pbl.db"))
	t.Setenv("LOG_LEVEL", "warn")
}

func TestConfigsCommand(t *testing.T) {
	withTempDB(t)
	out, err := run(t, "configs")
	require.NoError(t, err)
	assert.Contains(t, out, "municipality")
	assert.Contains(t, out, "energy")
}

func TestPlayRecordsHistory(t *testing.T) {
	withTempDB(t)

	out, err := run(t, "play",
		"--config", "municipality",
		"--persona", "persona-muni-001",
		"--problem", "problem-muni-001",
		"--partner", "partner-muni-003",
		"--job", "job-muni-003")
	require.NoError(t, err, out)
	assert.Contains(t, out, "245")
	assert.Contains(t, out, "problem 80 + solution 115 + synergy 50")

	out, err = run(t, "history", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Plays:   1")
	assert.Contains(t, out, "Highest: 245")

	out, err = run(t, "history", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "history cleared")

	out, err = run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "no plays recorded")
}

func TestPlayNoRecord(t *testing.T) {
	withTempDB(t)
	_, err := run(t, "play", "--no-record",
		"--persona", "persona-muni-002", "--problem", "problem-muni-002", "--job", "job-muni-001")
	require.NoError(t, err)

	out, err := run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "no plays recorded")
}

func TestPlayUnknownCardSuggests(t *testing.T) {
	withTempDB(t)
	_, err := run(t, "play", "--no-record", "--persona", "persona-muni-01", "--problem", "problem-muni-001")
	require.Error(t, err)
	assert.ErrorIs(t, err, card.ErrUnknownCard)
	assert.Contains(t, err.Error(), `did you mean "persona-muni-001"`)
}

func TestPlayNeedsSolution(t *testing.T) {
	withTempDB(t)
	_, err := run(t, "play", "--no-record", "--persona", "persona-muni-001", "--problem", "problem-muni-001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select-solution")
}

func TestHistoryFlagsExclusive(t *testing.T) {
	withTempDB(t)
	_, err := run(t, "history", "--stats", "--clear")
	require.Error(t, err)
}

func TestPlayRepeatedSolutionIDsCountOnce(t *testing.T) {
	withTempDB(t)
	out, err := run(t, "play", "--no-record",
		"--config", "municipality",
		"--persona", "persona-muni-001",
		"--problem", "problem-muni-001",
		"--partner", "partner-muni-003", "--partner", "partner-muni-003",
		"--job", "job-muni-003")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Local Business")
	assert.Contains(t, out, "problem 80 + solution 115 + synergy 50")
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, uniqueIDs([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, uniqueIDs(nil))
}
