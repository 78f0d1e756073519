// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Azure/foundrylib/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadParameterFileArmShape(t *testing.T) {
	path := writeTempFile(t, "params.json", `{
  "$schema": "https://schema.management.azure.com/schemas/2019-04-01/deploymentParameters.json#",
  "contentVersion": "1.0.0.0",
  "parameters": {
    "foundryName": { "value": "myfoundry" },
    "capacity": { "value": 50 }
  }
}`)
	params, err := LoadParameterFile(path)
	require.NoError(t, err)
	assert.Equal(t, "myfoundry", params["foundryName"])
	assert.Equal(t, float64(50), params["capacity"])
}

func TestLoadParameterFileFlatJson(t *testing.T) {
	path := writeTempFile(t, "params.json", `{"foundryName": "myfoundry"}`)
	params, err := LoadParameterFile(path)
	require.NoError(t, err)
	assert.Equal(t, "myfoundry", params["foundryName"])
}

func TestLoadParameterFileYaml(t *testing.T) {
	path := writeTempFile(t, "params.yaml", "foundryName: myfoundry\ncapacity: 50\n")
	params, err := LoadParameterFile(path)
	require.NoError(t, err)
	assert.Equal(t, "myfoundry", params["foundryName"])
	assert.Equal(t, 50, params["capacity"])
}

func TestLoadParameterFileBicepParamRejected(t *testing.T) {
	path := writeTempFile(t, "params.bicepparam", "using 'main.bicep'\n")
	_, err := LoadParameterFile(path)
	require.ErrorIs(t, err, ErrBicepParamFile)
}

func TestLoadParameterFileUnknownExtension(t *testing.T) {
	path := writeTempFile(t, "params.toml", "")
	_, err := LoadParameterFile(path)
	require.ErrorIs(t, err, ErrUnsupportedParameterFile)
}

func TestEnvParameterLayer(t *testing.T) {
	topo := assets.NewTopology("test")
	topo.Parameters["foundryName"] = &assets.ParameterSpec{Name: "foundryName", Type: assets.ParameterString, EnvVar: "FOUNDRY_NAME"}
	topo.Parameters["capacity"] = &assets.ParameterSpec{Name: "capacity", Type: assets.ParameterInt, EnvVar: "MODEL_CAPACITY"}
	topo.Parameters["private"] = &assets.ParameterSpec{Name: "private", Type: assets.ParameterBool, EnvVar: "PRIVATE"}
	topo.Parameters["tags"] = &assets.ParameterSpec{Name: "tags", Type: assets.ParameterObject, EnvVar: "TAGS"}
	topo.Parameters["noAlias"] = &assets.ParameterSpec{Name: "noAlias", Type: assets.ParameterString}

	env := map[string]string{
		"FOUNDRY_NAME":   "myfoundry",
		"MODEL_CAPACITY": "30",
		"PRIVATE":        "true",
		"TAGS":           `{"env":"dev"}`,
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	layer, err := EnvParameterLayer(topo, lookup)
	require.NoError(t, err)
	assert.Equal(t, "myfoundry", layer["foundryName"])
	assert.Equal(t, 30, layer["capacity"])
	assert.Equal(t, true, layer["private"])
	assert.Equal(t, map[string]any{"env": "dev"}, layer["tags"])
	assert.NotContains(t, layer, "noAlias")
}

func TestEnvParameterLayerConversionError(t *testing.T) {
	topo := assets.NewTopology("test")
	topo.Parameters["capacity"] = &assets.ParameterSpec{Name: "capacity", Type: assets.ParameterInt, EnvVar: "MODEL_CAPACITY"}
	lookup := func(string) (string, bool) { return "lots", true }
	_, err := EnvParameterLayer(topo, lookup)
	assert.ErrorContains(t, err, "MODEL_CAPACITY")
}

func TestMergeParameterLayersPrecedence(t *testing.T) {
	topo := assets.NewTopology("test")
	topo.Parameters["location"] = &assets.ParameterSpec{Name: "location", Type: assets.ParameterString, Default: "eastus"}
	topo.Parameters["capacity"] = &assets.ParameterSpec{Name: "capacity", Type: assets.ParameterInt, Default: 10}

	params, err := MergeParameterLayers(topo,
		map[string]any{"location": "swedencentral"},
		map[string]any{"capacity": 30},
		map[string]any{"capacity": 50},
	)
	require.NoError(t, err)
	assert.Equal(t, "swedencentral", params["location"])
	assert.Equal(t, 50, params["capacity"])
}

func TestMergeParameterLayersDeepCopies(t *testing.T) {
	topo := assets.NewTopology("test")
	src := map[string]any{"tags": map[string]any{"env": "dev"}}
	params, err := MergeParameterLayers(topo, src)
	require.NoError(t, err)
	params["tags"].(map[string]any)["env"] = "prod"
	assert.Equal(t, "dev", src["tags"].(map[string]any)["env"])
}

func TestValidateParametersRequired(t *testing.T) {
	topo := assets.NewTopology("test")
	topo.Parameters["foundryName"] = &assets.ParameterSpec{Name: "foundryName", Type: assets.ParameterString, Required: true, EnvVar: "FOUNDRY_NAME"}
	topo.Parameters["projectName"] = &assets.ParameterSpec{Name: "projectName", Type: assets.ParameterString, Required: true}

	err := ValidateParameters(topo, map[string]any{"foundryName": ""})
	require.ErrorIs(t, err, ErrRequiredParameters)
	assert.ErrorContains(t, err, "FOUNDRY_NAME")
	assert.ErrorContains(t, err, "projectName")
	assert.ErrorContains(t, err, "must be set")

	err = ValidateParameters(topo, map[string]any{"foundryName": "f", "projectName": "p"})
	assert.NoError(t, err)
}

func TestValidateParametersRequiredTogether(t *testing.T) {
	topo := assets.NewTopology("test")
	topo.Parameters["openAiApiBase"] = &assets.ParameterSpec{Name: "openAiApiBase", Type: assets.ParameterString, EnvVar: "OPENAI_API_BASE"}
	topo.Parameters["openAiResourceId"] = &assets.ParameterSpec{Name: "openAiResourceId", Type: assets.ParameterString, EnvVar: "OPENAI_RESOURCE_ID"}
	topo.RequiredTogether = [][]string{{"openAiApiBase", "openAiResourceId"}}

	err := ValidateParameters(topo, map[string]any{"openAiApiBase": "https://example.openai.azure.com"})
	require.ErrorIs(t, err, ErrRequiredTogether)
	assert.ErrorContains(t, err, "OPENAI_API_BASE, OPENAI_RESOURCE_ID are required")

	assert.NoError(t, ValidateParameters(topo, map[string]any{}))
	assert.NoError(t, ValidateParameters(topo, map[string]any{
		"openAiApiBase":    "https://example.openai.azure.com",
		"openAiResourceId": "/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/rg/providers/Microsoft.CognitiveServices/accounts/oai",
	}))
}

func TestValidateParametersByoResourceType(t *testing.T) {
	topo := assets.NewTopology("test")
	topo.Parameters["existingAiSearchId"] = &assets.ParameterSpec{Name: "existingAiSearchId", Type: assets.ParameterString}
	topo.BYOResources = map[string]string{"existingAiSearchId": "Microsoft.Search/searchServices"}

	err := ValidateParameters(topo, map[string]any{
		"existingAiSearchId": "/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/sa",
	})
	assert.ErrorContains(t, err, "existingAiSearchId")

	assert.NoError(t, ValidateParameters(topo, map[string]any{
		"existingAiSearchId": "/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/rg/providers/Microsoft.Search/searchServices/search",
	}))

	// Empty string means not-supplied and skips the type check.
	assert.NoError(t, ValidateParameters(topo, map[string]any{"existingAiSearchId": ""}))
}
