package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommandStructure(t *testing.T) {
	assert.Equal(t, "validate", validateCmd.Use)
	assert.NotEmpty(t, validateCmd.Short)
	assert.Contains(t, validateCmd.Long, "situations validate")
	assert.NotNil(t, validateCmd.Flags().Lookup("check-ledger"))
}

func TestValidateCmd_Execute_Valid(t *testing.T) {
	srv := newSituationsServer(t)
	configFile := createTempTestConfig(t, situationsConfig(srv, t.TempDir()))

	out, err := execute(t, "validate", "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Datasets found: 1")
	assert.Contains(t, out, "--- Dataset: bilateral ---")
	assert.Contains(t, out, "Columns: 8 (bilateral)")
	assert.Contains(t, out, "Configuration is valid")
}

func TestValidateCmd_Execute_Invalid(t *testing.T) {
	srv := newSituationsServer(t)
	data := situationsConfig(srv, t.TempDir())
	ds := data["datasets"].(map[string]interface{})["bilateral"].(map[string]interface{})
	ds["variant"] = "wide"
	ds["source_ids"] = []string{}
	configFile := createTempTestConfig(t, data)

	out, err := execute(t, "validate", "--config", configFile)
	require.Error(t, err)
	assert.Contains(t, out, "datasets.bilateral.variant")
	assert.Contains(t, out, "datasets.bilateral.source_ids")
}

func TestValidateCmd_Execute_CheckLedgerRequiresLedger(t *testing.T) {
	srv := newSituationsServer(t)
	configFile := createTempTestConfig(t, situationsConfig(srv, t.TempDir()))

	_, err := execute(t, "validate", "--config", configFile, "--check-ledger")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger.enabled is false")
}

func TestValidateCmd_Execute_OverridesAreValidated(t *testing.T) {
	srv := newSituationsServer(t)
	configFile := createTempTestConfig(t, situationsConfig(srv, t.TempDir()))

	out, err := execute(t, "validate", "--config", configFile, "--save", "--use-saved")
	require.Error(t, err)
	assert.Contains(t, out, "save and use_saved are mutually exclusive")
}
