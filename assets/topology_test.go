package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTopology() *Topology {
	topo := NewTopology("standard-private")
	topo.Network = NetworkPrivate
	topo.Parameters["location"] = &ParameterSpec{Name: "location", Type: ParameterString, Required: true}
	topo.Parameters["existingAiSearchId"] = &ParameterSpec{Name: "existingAiSearchId", Type: ParameterString}
	topo.BYOResources["existingAiSearchId"] = "Microsoft.Search/searchServices"

	network := NewStage("network", "templates/network.json")
	account := NewStage("account", "templates/account.json")
	account.DependsOn = []string{"network"}
	account.Parameters["subnetId"] = "${stages.network.outputs.agentSubnetId}"
	topo.Stages = []*Stage{network, account}
	topo.Outputs["endpoint"] = OutputRef{Stage: "account", Output: "endpoint"}
	return topo
}

func TestTopologyValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validTopology().Validate())
}

func TestTopologyValidateForwardDependency(t *testing.T) {
	t.Parallel()

	topo := validTopology()
	topo.Stages[0].DependsOn = []string{"account"}
	err := topo.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not declared before")
}

func TestTopologyValidateDuplicateStage(t *testing.T) {
	t.Parallel()

	topo := validTopology()
	topo.Stages = append(topo.Stages, NewStage("network", "templates/network.json"))
	require.Error(t, topo.Validate())
}

func TestTopologyValidateUnknownOutputStage(t *testing.T) {
	t.Parallel()

	topo := validTopology()
	topo.Outputs["bad"] = OutputRef{Stage: "nope", Output: "x"}
	require.Error(t, topo.Validate())
}

func TestTopologyValidateUnknownGuardParameter(t *testing.T) {
	t.Parallel()

	topo := validTopology()
	topo.RequiredTogether = append(topo.RequiredTogether, []string{"openAiApiBase", "openAiResourceId"})
	require.Error(t, topo.Validate())
}

func TestTopologyCopyIsDeep(t *testing.T) {
	t.Parallel()

	topo := validTopology()
	topo.Parameters["tags"] = &ParameterSpec{Name: "tags", Type: ParameterObject, Default: map[string]any{"env": "dev"}}
	topo.Stages[0].Parameters["tags"] = map[string]any{"env": "dev"}

	cp := topo.Copy()
	cp.Stages[0].Parameters["injected"] = true
	cp.Stages[0].Parameters["tags"].(map[string]any)["env"] = "prod"
	cp.Parameters["location"].Required = false
	cp.Parameters["tags"].Default.(map[string]any)["env"] = "prod"
	cp.BYOResources["other"] = "Microsoft.Storage/storageAccounts"

	assert.NotContains(t, topo.Stages[0].Parameters, "injected")
	assert.Equal(t, "dev", topo.Stages[0].Parameters["tags"].(map[string]any)["env"])
	assert.True(t, topo.Parameters["location"].Required)
	assert.Equal(t, "dev", topo.Parameters["tags"].Default.(map[string]any)["env"])
	assert.NotContains(t, topo.BYOResources, "other")
}

func TestEffectiveScope(t *testing.T) {
	t.Parallel()

	topo := NewTopology("multi-sub")
	topo.Scope = ScopeSubscription
	st := NewStage("rg", "templates/rg.json")
	assert.Empty(t, st.Scope)
	assert.Equal(t, ScopeSubscription, topo.EffectiveScope(st))
	st.Scope = ScopeResourceGroup
	assert.Equal(t, ScopeResourceGroup, topo.EffectiveScope(st))
}

func TestParseScopeKind(t *testing.T) {
	t.Parallel()

	sk, err := ParseScopeKind("")
	require.NoError(t, err)
	assert.Equal(t, ScopeResourceGroup, sk)

	sk, err = ParseScopeKind("managementGroup")
	require.NoError(t, err)
	assert.Equal(t, ScopeManagementGroup, sk)

	_, err = ParseScopeKind("tenant")
	require.Error(t, err)
}
