// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package processor

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullLibrary(t *testing.T) {
	t.Parallel()

	fs := os.DirFS("./testdata/testlib")
	pc := NewClient(fs)
	res := NewResult()
	require.NoError(t, pc.Process(res))

	assert.Len(t, res.LibTopologies, 2)
	assert.Len(t, res.LibDefaultValues, 1)

	require.NotNil(t, res.Metadata)
	assert.Equal(t, "test", res.Metadata.Name)
	assert.Equal(t, "test display name.", res.Metadata.DisplayName)
	assert.Equal(t, "test description", res.Metadata.Description)
	assert.Equal(t, "platform/test", res.Metadata.Path)
	assert.Equal(t, []LibMetadataDependency{
		{
			Path: "platform/base",
			Ref:  "2025.02.0",
		},
		{
			CustomURL: "../testdir",
		},
	}, res.Metadata.Dependencies)
}

func TestProcessTopologyYaml(t *testing.T) {
	t.Parallel()

	fs := os.DirFS("./testdata/testlib")
	pc := NewClient(fs)
	res := NewResult()
	require.NoError(t, pc.Process(res))

	topo, ok := res.LibTopologies["basic"]
	require.True(t, ok)
	assert.Equal(t, "Basic topology", topo.DisplayName)
	assert.Equal(t, "resourceGroup", topo.Scope)
	assert.Equal(t, "public", topo.Network)
	assert.Equal(t, []string{"Microsoft.CognitiveServices"}, topo.RequiredProviders)

	require.Len(t, topo.Parameters, 2)
	assert.Equal(t, "foundryName", topo.Parameters[0].Name)
	assert.True(t, topo.Parameters[0].Required)
	assert.Equal(t, "FOUNDRY_NAME", topo.Parameters[0].Env)
	assert.Equal(t, "swedencentral", topo.Parameters[1].Default)

	require.Len(t, topo.Stages, 1)
	assert.Equal(t, "foundry", topo.Stages[0].Name)
	assert.Equal(t, "templates/basic.json", topo.Stages[0].TemplateFile)
	assert.Equal(t, "${parameters.foundryName}", topo.Stages[0].Parameters["foundryName"])

	require.Len(t, topo.Outputs, 1)
	assert.Equal(t, "foundryEndpoint", topo.Outputs[0].Name)
	assert.Equal(t, "foundry", topo.Outputs[0].Stage)
}

func TestProcessTopologyJson(t *testing.T) {
	t.Parallel()

	fs := os.DirFS("./testdata/testlib")
	pc := NewClient(fs)
	res := NewResult()
	require.NoError(t, pc.Process(res))

	topo, ok := res.LibTopologies["chained"]
	require.True(t, ok)
	assert.Equal(t, "private", topo.Network)

	require.Len(t, topo.Stages, 2)
	assert.Equal(t, "network", topo.Stages[0].Name)
	assert.Equal(t, "foundry", topo.Stages[1].Name)
	assert.True(t, topo.Stages[1].Serial)
	assert.Equal(t, []string{"network"}, topo.Stages[1].DependsOn)
	assert.Equal(t, "${stages.network.outputs.agentSubnetId}", topo.Stages[1].Parameters["agentSubnetId"])
}

func TestProcessDefaultValues(t *testing.T) {
	t.Parallel()

	fs := os.DirFS("./testdata/testlib")
	pc := NewClient(fs)
	res := NewResult()
	require.NoError(t, pc.Process(res))

	def, ok := res.LibDefaultValues["default_location"]
	require.True(t, ok)
	assert.Equal(t, "swedencentral", def.Value)
	require.Len(t, def.Assignments, 1)
	assert.Equal(t, "basic", def.Assignments[0].TopologyName)
	assert.Equal(t, []string{"location"}, def.Assignments[0].ParameterNames)
}

func TestProcessMissingTemplate(t *testing.T) {
	t.Parallel()

	fs := os.DirFS("./testdata/missing-template")
	pc := NewClient(fs)
	res := NewResult()
	err := pc.Process(res)
	require.ErrorIs(t, err, ErrTemplateNotFound)
	assert.ErrorContains(t, err, "templates/absent.json")
}

func TestProcessMultipleDefaultValuesFiles(t *testing.T) {
	t.Parallel()

	fs := os.DirFS("./testdata/multi-defaults")
	pc := NewClient(fs)
	res := NewResult()
	require.ErrorIs(t, pc.Process(res), ErrMultipleDefaultValuesFileFound)
}

func TestProcessDefaultValueWithoutName(t *testing.T) {
	t.Parallel()

	fs := os.DirFS("./testdata/unnamed-default")
	pc := NewClient(fs)
	res := NewResult()
	require.ErrorIs(t, pc.Process(res), ErrNoNameProvided)
}

func TestMetadataFileNotExist(t *testing.T) {
	t.Parallel()

	pc := NewClient(os.DirFS("./testdata/multi-defaults"))
	metad, err := pc.Metadata()
	require.NoError(t, err)
	assert.Empty(t, metad.Name)
	assert.Empty(t, metad.Dependencies)
}

func TestTemplate(t *testing.T) {
	t.Parallel()

	pc := NewClient(os.DirFS("./testdata/testlib"))
	data, err := pc.Template("templates/basic.json")
	require.NoError(t, err)

	doc := make(map[string]any)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "$schema")
	assert.Contains(t, doc, "outputs")

	_, err = pc.Template("templates/absent.json")
	require.Error(t, err)
}

func TestLibTopologyConversion(t *testing.T) {
	t.Parallel()

	fs := os.DirFS("./testdata/testlib")
	pc := NewClient(fs)
	res := NewResult()
	require.NoError(t, pc.Process(res))

	topo, err := res.LibTopologies["chained"].Topology()
	require.NoError(t, err)
	assert.Equal(t, "chained", topo.Name)
	require.Len(t, topo.Stages, 2)
	assert.Equal(t, topo.Scope, topo.Stages[0].Scope)
	assert.True(t, topo.Stages[1].Serial)
}
