package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDatasetsCommandStructure(t *testing.T) {
	assert.Equal(t, "list-datasets", listDatasetsCmd.Use)
	assert.NotEmpty(t, listDatasetsCmd.Short)
	assert.Contains(t, listDatasetsCmd.Long, "situations list-datasets")
	assert.NotNil(t, listDatasetsCmd.RunE)
}

func TestListDatasetsCmd_Execute(t *testing.T) {
	srv := newSituationsServer(t)
	data := situationsConfig(srv, t.TempDir())
	datasets := data["datasets"].(map[string]interface{})
	datasets["aggregate"] = map[string]interface{}{
		"name":                   "UNHCR_Situations_Aggregate",
		"title":                  "UNHCR Situations (totals)",
		"variant":                "aggregate",
		"source_ids":             []string{"1"},
		"population_collections": []string{"28"},
		"fetch":                  map[string]interface{}{"concurrency": 4},
	}
	configFile := createTempTestConfig(t, data)

	out, err := execute(t, "list-datasets", "--config", configFile)
	require.NoError(t, err)

	assert.Contains(t, out, "1. aggregate")
	assert.Contains(t, out, "2. bilateral")
	assert.Contains(t, out, "Sources:       sv_id=1")
	assert.Contains(t, out, "Sources:       geo_id=220,259")
	assert.Contains(t, out, "Concurrency:   4")
	assert.Contains(t, out, "Baseline:      "+srv.URL+"/baseline.csv")
}

func TestListDatasetsCmd_Execute_Empty(t *testing.T) {
	configFile := createTempTestConfig(t, map[string]interface{}{
		"output": map[string]interface{}{"dir": "out"},
	})

	out, err := execute(t, "list-datasets", "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "No datasets defined in")
}
