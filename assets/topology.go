// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package assets

import (
	"fmt"
	"slices"
	"strings"

	"github.com/brunoga/deep"
	mapset "github.com/deckarep/golang-set/v2"
)

// ScopeKind is the ARM scope a deployment stage targets.
type ScopeKind string

const (
	ScopeResourceGroup   ScopeKind = "resourceGroup"
	ScopeSubscription    ScopeKind = "subscription"
	ScopeManagementGroup ScopeKind = "managementGroup"
)

// NetworkMode describes the network posture of a topology variant.
type NetworkMode string

const (
	NetworkPublic  NetworkMode = "public"
	NetworkPrivate NetworkMode = "private"
)

// ParameterType is the declared type of a topology parameter.
type ParameterType string

const (
	ParameterString ParameterType = "string"
	ParameterInt    ParameterType = "int"
	ParameterBool   ParameterType = "bool"
	ParameterObject ParameterType = "object"
	ParameterArray  ParameterType = "array"
)

// Topology represents one deployable variant of the catalog.
// Do not create this struct directly, use NewTopology instead.
type Topology struct {
	Name              string
	DisplayName       string
	Description       string
	Scope             ScopeKind
	Network           NetworkMode
	Stages            []*Stage
	Parameters        map[string]*ParameterSpec
	RequiredTogether  [][]string
	BYOResources      map[string]string // parameter name -> expected ARM resource type
	Outputs           map[string]OutputRef
	RequiredProviders mapset.Set[string]
}

// ParameterSpec describes a single topology parameter.
type ParameterSpec struct {
	Name     string
	Type     ParameterType
	Required bool
	Default  any
	EnvVar   string // environment variable consulted when the parameter is not otherwise supplied
}

// OutputRef maps a topology output key to a named output of a stage.
type OutputRef struct {
	Stage  string
	Output string
}

// Stage is a single ARM deployment within a topology.
// Stages are executed in declaration order subject to DependsOn.
type Stage struct {
	Name         string
	TemplateFile string // path of the compiled ARM template within the library FS
	Scope        ScopeKind
	Location     string
	// Scope bindings. Empty values inherit the plan-level scope.
	SubscriptionID    string
	ResourceGroup     string
	ManagementGroupID string
	Serial            bool
	DependsOn         []string
	// Parameters maps template parameter names to literal values or
	// "${parameters.<name>}" / "${stages.<stage>.outputs.<key>}" references.
	Parameters map[string]any
}

// NewTopology creates a new Topology with the given name.
func NewTopology(name string) *Topology {
	return &Topology{
		Name:              name,
		Scope:             ScopeResourceGroup,
		Network:           NetworkPublic,
		Stages:            make([]*Stage, 0),
		Parameters:        make(map[string]*ParameterSpec),
		RequiredTogether:  make([][]string, 0),
		BYOResources:      make(map[string]string),
		Outputs:           make(map[string]OutputRef),
		RequiredProviders: mapset.NewThreadUnsafeSet[string](),
	}
}

// NewStage creates a new Stage with the given name and template file.
// Scope is left unset so the stage inherits the topology scope, see
// Topology.EffectiveScope.
func NewStage(name, templateFile string) *Stage {
	return &Stage{
		Name:         name,
		TemplateFile: templateFile,
		DependsOn:    make([]string, 0),
		Parameters:   make(map[string]any),
	}
}

// Stage returns the stage with the given name, or nil.
func (t *Topology) Stage(name string) *Stage {
	for _, s := range t.Stages {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// StageNames returns the stage names in declaration order.
func (t *Topology) StageNames() []string {
	res := make([]string, len(t.Stages))
	for i, s := range t.Stages {
		res[i] = s.Name
	}
	return res
}

// Validate checks the internal consistency of the topology:
// unique stage names, backward-only DependsOn references, and
// output references that resolve to declared stages.
func (t *Topology) Validate() error {
	if t.Name == "" {
		return NewErrMissingField("topology", "name")
	}
	if len(t.Stages) == 0 {
		return fmt.Errorf("Topology.Validate: topology `%s` has no stages", t.Name)
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, s := range t.Stages {
		if s.Name == "" {
			return NewErrMissingField("stage", "name")
		}
		if s.TemplateFile == "" {
			return NewErrMissingField("stage "+s.Name, "template_file")
		}
		if seen.Contains(s.Name) {
			return fmt.Errorf("Topology.Validate: duplicate stage name `%s` in topology `%s`", s.Name, t.Name)
		}
		for _, dep := range s.DependsOn {
			if !seen.Contains(dep) {
				return fmt.Errorf("Topology.Validate: stage `%s` depends on `%s`, which is not declared before it", s.Name, dep)
			}
		}
		seen.Add(s.Name)
	}
	for key, ref := range t.Outputs {
		st := t.Stage(ref.Stage)
		if st == nil {
			return fmt.Errorf("Topology.Validate: output `%s` references unknown stage `%s`", key, ref.Stage)
		}
	}
	for _, group := range t.RequiredTogether {
		for _, p := range group {
			if _, ok := t.Parameters[p]; !ok {
				return fmt.Errorf("Topology.Validate: required_together references unknown parameter `%s`", p)
			}
		}
	}
	for p := range t.BYOResources {
		if _, ok := t.Parameters[p]; !ok {
			return fmt.Errorf("Topology.Validate: byo_resources references unknown parameter `%s`", p)
		}
	}
	return nil
}

// ParameterNames returns the sorted parameter names.
func (t *Topology) ParameterNames() []string {
	res := make([]string, 0, len(t.Parameters))
	for k := range t.Parameters {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// EffectiveScope returns the scope of the stage, falling back to the
// topology scope when the stage does not override it.
func (t *Topology) EffectiveScope(s *Stage) ScopeKind {
	if s.Scope != "" {
		return s.Scope
	}
	return t.Scope
}

// Copy creates a deep copy of the topology.
func (t *Topology) Copy() *Topology {
	rtn := NewTopology(t.Name)
	rtn.DisplayName = t.DisplayName
	rtn.Description = t.Description
	rtn.Scope = t.Scope
	rtn.Network = t.Network
	rtn.RequiredProviders = t.RequiredProviders.Clone()
	for _, s := range t.Stages {
		ns := NewStage(s.Name, s.TemplateFile)
		ns.Scope = s.Scope
		ns.Location = s.Location
		ns.SubscriptionID = s.SubscriptionID
		ns.ResourceGroup = s.ResourceGroup
		ns.ManagementGroupID = s.ManagementGroupID
		ns.Serial = s.Serial
		ns.DependsOn = slices.Clone(s.DependsOn)
		for k, v := range s.Parameters {
			ns.Parameters[k] = copyValue(v)
		}
		rtn.Stages = append(rtn.Stages, ns)
	}
	for k, v := range t.Parameters {
		cp := *v
		cp.Default = copyValue(v.Default)
		rtn.Parameters[k] = &cp
	}
	for _, g := range t.RequiredTogether {
		rtn.RequiredTogether = append(rtn.RequiredTogether, slices.Clone(g))
	}
	for k, v := range t.BYOResources {
		rtn.BYOResources[k] = v
	}
	for k, v := range t.Outputs {
		rtn.Outputs[k] = v
	}
	return rtn
}

// copyValue deep-copies a parameter value, which may be a nested map or
// slice produced by the YAML/JSON unmarshalers.
func copyValue(v any) any {
	if v == nil {
		return nil
	}
	return deep.MustCopy(v)
}

// ParseScopeKind converts a string to a ScopeKind.
func ParseScopeKind(s string) (ScopeKind, error) {
	switch strings.TrimSpace(s) {
	case "", string(ScopeResourceGroup):
		return ScopeResourceGroup, nil
	case string(ScopeSubscription):
		return ScopeSubscription, nil
	case string(ScopeManagementGroup):
		return ScopeManagementGroup, nil
	}
	return "", fmt.Errorf("ParseScopeKind: unknown scope kind `%s`", s)
}

// ParseNetworkMode converts a string to a NetworkMode.
func ParseNetworkMode(s string) (NetworkMode, error) {
	switch strings.TrimSpace(s) {
	case "", string(NetworkPublic):
		return NetworkPublic, nil
	case string(NetworkPrivate):
		return NetworkPrivate, nil
	}
	return "", fmt.Errorf("ParseNetworkMode: unknown network mode `%s`", s)
}
