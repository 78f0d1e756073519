// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyOutputs(t *testing.T) {
	plan, err := NewPlan(testPlanRequest(testTopology()))
	require.NoError(t, err)

	require.NoError(t, plan.VerifyOutputs(map[string]OutputValue{
		"foundryEndpoint":          {Type: "String", Value: "https://myfoundry.cognitiveservices.azure.com/"},
		"capabilityHostValidated":  {Type: "Bool", Value: true},
		"network.peSubnetId":       {Type: "String", Value: "/subscriptions/s/resourceGroups/rg/providers/Microsoft.Network/virtualNetworks/vnet/subnets/pe"},
		"foundry.deploymentQuotas": {Type: "Object", Value: map[string]any{"gpt-4.1": 30}},
	}))
}

func TestVerifyOutputsValidationFlagFalse(t *testing.T) {
	plan, err := NewPlan(testPlanRequest(testTopology()))
	require.NoError(t, err)

	err = plan.VerifyOutputs(map[string]OutputValue{
		"capabilityHostValidated": {Type: "Bool", Value: false},
	})
	require.ErrorIs(t, err, ErrVerificationFailed)
	assert.ErrorContains(t, err, "capabilityHostValidated")
}

func TestVerifyOutputsBoolCarriesWrongType(t *testing.T) {
	plan, err := NewPlan(testPlanRequest(testTopology()))
	require.NoError(t, err)

	err = plan.VerifyOutputs(map[string]OutputValue{
		"capabilityHostValidated": {Type: "Bool", Value: "true"},
	})
	require.ErrorIs(t, err, ErrVerificationFailed)
	assert.ErrorContains(t, err, "string")
}
