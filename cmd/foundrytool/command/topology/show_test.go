// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package topology

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Azure/foundrylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologyView(t *testing.T) {
	t.Parallel()

	fl := foundrylib.NewFoundryLib(nil)
	require.NoError(t, fl.Init(context.Background(), foundrylib.EmbeddedLibrary()))

	view := topologyView(fl.Topology("standard-private"))
	assert.Equal(t, "standard-private", view.Name)
	assert.Equal(t, "resourceGroup", view.Scope)
	assert.Equal(t, "private", view.Network)

	require.Len(t, view.Stages, 3)
	assert.Equal(t, "network", view.Stages[0].Name)
	assert.Equal(t, "resourceGroup", view.Stages[0].Scope)
	assert.Equal(t, []string{"foundry"}, view.Stages[2].DependsOn)
	assert.True(t, view.Stages[2].Serial)

	data, err := json.Marshal(view)
	require.NoError(t, err)

	decoded := make(map[string]any)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "required_providers")
	assert.Contains(t, decoded, "parameters")
	assert.Contains(t, decoded, "outputs")
}
