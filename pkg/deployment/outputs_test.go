// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenOutputs(t *testing.T) {
	raw := map[string]any{
		"foundryEndpoint": map[string]any{"type": "String", "value": "https://myfoundry.cognitiveservices.azure.com/"},
		"validated":       map[string]any{"type": "Bool", "value": true},
		"garbage":         "not an output object",
	}
	outputs := flattenOutputs(raw)
	require.Len(t, outputs, 2)
	assert.Equal(t, OutputValue{Type: "String", Value: "https://myfoundry.cognitiveservices.azure.com/"}, outputs["foundryEndpoint"])
	assert.Equal(t, OutputValue{Type: "Bool", Value: true}, outputs["validated"])
}

func TestFlattenOutputsNil(t *testing.T) {
	assert.Empty(t, flattenOutputs(nil))
}

func TestMapOutputs(t *testing.T) {
	plan, err := NewPlan(testPlanRequest(testTopology()))
	require.NoError(t, err)

	stageOutputs := map[string]map[string]OutputValue{
		"network": {
			"agentSubnetId": {Type: "String", Value: "/subscriptions/s/resourceGroups/rg/providers/Microsoft.Network/virtualNetworks/vnet/subnets/agents"},
			"peSubnetId":    {Type: "String", Value: "/subscriptions/s/resourceGroups/rg/providers/Microsoft.Network/virtualNetworks/vnet/subnets/pe"},
		},
		"foundry": {
			"foundryEndpoint": {Type: "String", Value: "https://myfoundry.cognitiveservices.azure.com/"},
		},
	}

	outputs, err := plan.MapOutputs(stageOutputs)
	require.NoError(t, err)

	// declared topology output uses its declared key
	assert.Equal(t, "/subscriptions/s/resourceGroups/rg/providers/Microsoft.Network/virtualNetworks/vnet/subnets/agents", outputs["agentSubnetId"].Value)
	// unclaimed stage outputs keep their stage-qualified names
	assert.Contains(t, outputs, "network.peSubnetId")
	assert.Contains(t, outputs, "foundry.foundryEndpoint")
	assert.NotContains(t, outputs, "network.agentSubnetId")
}

func TestMapOutputsMissingStage(t *testing.T) {
	plan, err := NewPlan(testPlanRequest(testTopology()))
	require.NoError(t, err)
	_, err = plan.MapOutputs(map[string]map[string]OutputValue{})
	require.ErrorIs(t, err, ErrOutputNotFound)
}

func TestMapOutputsMissingOutput(t *testing.T) {
	plan, err := NewPlan(testPlanRequest(testTopology()))
	require.NoError(t, err)
	_, err = plan.MapOutputs(map[string]map[string]OutputValue{
		"network": {"somethingElse": {Type: "String", Value: "x"}},
	})
	require.ErrorIs(t, err, ErrOutputNotFound)
}

func TestFormatOutputs(t *testing.T) {
	s := FormatOutputs(map[string]OutputValue{
		"b": {Type: "String", Value: "two"},
		"a": {Type: "Int", Value: 1},
	})
	assert.Equal(t, "a = 1\nb = two\n", s)
}

func TestFormatOutputsJSON(t *testing.T) {
	s, err := FormatOutputsJSON(map[string]OutputValue{
		"foundryEndpoint": {Type: "String", Value: "https://myfoundry.cognitiveservices.azure.com/"},
	})
	require.NoError(t, err)

	decoded := make(map[string]OutputValue)
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, OutputValue{Type: "String", Value: "https://myfoundry.cognitiveservices.azure.com/"}, decoded["foundryEndpoint"])
}
