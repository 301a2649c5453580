package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDryRunCommandStructure(t *testing.T) {
	assert.Equal(t, "dry-run", dryrunCmd.Use)
	assert.NotEmpty(t, dryrunCmd.Short)
	assert.Contains(t, dryrunCmd.Long, "situations dry-run")
	assert.NotNil(t, dryrunCmd.RunE)

	limitFlag := dryrunCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "10", limitFlag.DefValue)
}

func TestDryRunCmd_Execute_PreviewsWithoutWriting(t *testing.T) {
	srv := newSituationsServer(t)
	outDir := t.TempDir()
	configFile := createTempTestConfig(t, situationsConfig(srv, outDir))

	out, err := execute(t, "dry-run", "--dataset", "bilateral", "--config", configFile, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "New rows:        2")
	assert.Contains(t, out, "Output:          not written")
	assert.Contains(t, out, "geo_id=220&population_collection=20,22")
	assert.Contains(t, out, "Uganda")
	assert.Contains(t, out, "Would write unhcr_situations.csv (3 rows), dataset date [2024-05-31T00:00:00 TO 2024-06-30T23:59:59]")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDryRunCmd_Execute_LimitsPreview(t *testing.T) {
	srv := newSituationsServer(t)
	configFile := createTempTestConfig(t, situationsConfig(srv, t.TempDir()))

	out, err := execute(t, "dry-run", "--dataset", "bilateral", "--config", configFile, "--no-color", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "... 1 more row(s)")
}

func TestDryRunCmd_Execute_ReportsFailedSource(t *testing.T) {
	srv := newSituationsServer(t)
	configFile := createTempTestConfig(t, situationsConfig(srv, t.TempDir()))

	out, err := execute(t, "dry-run", "--dataset", "bilateral", "--config", configFile, "--no-color",
		"--source-id", "999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dry-run completed with 1 error(s)")
	assert.Contains(t, out, "No new rows.")
}
