// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package foundrylib

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitEmbeddedLibrary(t *testing.T) {
	t.Parallel()

	fl := NewFoundryLib(nil)
	require.NoError(t, fl.Init(context.Background(), EmbeddedLibrary()))

	assert.Equal(t, []string{"standard", "standard-byo", "standard-private"}, fl.TopologyNames())
	assert.Equal(t, []string{"default_location", "default_model_capacity"}, fl.DefaultValueNames())

	metad := fl.Metadata()
	require.Len(t, metad, 1)
	assert.Equal(t, "baseline", metad[0].Name())
	assert.Equal(t, "baseline", metad[0].Path())
	assert.Empty(t, metad[0].Dependencies())
}

func TestTopologyReturnsCopy(t *testing.T) {
	t.Parallel()

	fl := NewFoundryLib(nil)
	require.NoError(t, fl.Init(context.Background(), EmbeddedLibrary()))

	topo := fl.Topology("standard")
	require.NotNil(t, topo)
	topo.DisplayName = "mutated"
	topo.Stages[0].Parameters["location"] = "mutated"

	again := fl.Topology("standard")
	assert.Equal(t, "Standard setup", again.DisplayName)
	assert.Equal(t, "${parameters.location}", again.Stages[0].Parameters["location"])

	assert.Nil(t, fl.Topology("does-not-exist"))
}

func TestTopologyExists(t *testing.T) {
	t.Parallel()

	fl := NewFoundryLib(nil)
	require.NoError(t, fl.Init(context.Background(), EmbeddedLibrary()))

	assert.True(t, fl.TopologyExists("standard-private"))
	assert.False(t, fl.TopologyExists("does-not-exist"))
}

func TestDefaultParameterValues(t *testing.T) {
	t.Parallel()

	fl := NewFoundryLib(nil)
	require.NoError(t, fl.Init(context.Background(), EmbeddedLibrary()))

	vals := fl.DefaultParameterValues("standard")
	assert.Equal(t, "swedencentral", vals["location"])
	assert.Equal(t, float64(30), vals["modelCapacity"])

	dv := fl.DefaultValue("default_location")
	require.NotNil(t, dv)
	assert.Equal(t, []string{"location"}, dv.Assignments["standard-byo"])

	assert.Empty(t, fl.DefaultParameterValues("does-not-exist"))
}

func TestInitAlreadyExists(t *testing.T) {
	t.Parallel()

	fl := NewFoundryLib(nil)
	require.NoError(t, fl.Init(context.Background(), EmbeddedLibrary()))
	assert.ErrorContains(t, fl.Init(context.Background(), EmbeddedLibrary()), "already exists in the library")
}

func TestInitAllowOverwrite(t *testing.T) {
	t.Parallel()

	fl := NewFoundryLib(&Options{
		AllowOverwrite: true,
		Parallelism:    defaultParallelism,
	})
	require.NoError(t, fl.Init(context.Background(), EmbeddedLibrary()))
	require.NoError(t, fl.Init(context.Background(), EmbeddedLibrary()))
	assert.Len(t, fl.TopologyNames(), 3)
}

func TestInitInvalidOptions(t *testing.T) {
	t.Parallel()

	fl := &FoundryLib{}
	assert.Error(t, fl.Init(context.Background(), EmbeddedLibrary()))
}

func TestTemplate(t *testing.T) {
	t.Parallel()

	fl := NewFoundryLib(nil)
	require.NoError(t, fl.Init(context.Background(), EmbeddedLibrary()))

	data, err := fl.Template("standard", "foundry")
	require.NoError(t, err)

	doc := make(map[string]any)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "$schema")

	_, err = fl.Template("does-not-exist", "foundry")
	require.Error(t, err)

	_, err = fl.Template("standard", "does-not-exist")
	require.Error(t, err)
}
