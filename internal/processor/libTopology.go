// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package processor

import (
	"fmt"

	"github.com/Azure/foundrylib/assets"
)

// LibTopology represents a topology variant definition in the library.
type LibTopology struct {
	Name              string                 `json:"name"               yaml:"name"`
	DisplayName       string                 `json:"display_name"       yaml:"display_name"`
	Description       string                 `json:"description"        yaml:"description"`
	Scope             string                 `json:"scope"              yaml:"scope"`
	Network           string                 `json:"network"            yaml:"network"`
	RequiredProviders []string               `json:"required_providers" yaml:"required_providers"`
	Parameters        []LibTopologyParameter `json:"parameters"         yaml:"parameters"`
	RequiredTogether  [][]string             `json:"required_together"  yaml:"required_together"`
	BYOResources      map[string]string      `json:"byo_resources"      yaml:"byo_resources"`
	Stages            []LibTopologyStage     `json:"stages"             yaml:"stages"`
	Outputs           []LibTopologyOutput    `json:"outputs"            yaml:"outputs"`
}

// LibTopologyParameter represents a single parameter specification.
type LibTopologyParameter struct {
	Name     string `json:"name"     yaml:"name"`
	Type     string `json:"type"     yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
	Default  any    `json:"default"  yaml:"default"`
	Env      string `json:"env"      yaml:"env"`
}

// LibTopologyStage represents a deployment stage in the library.
type LibTopologyStage struct {
	Name              string         `json:"name"                yaml:"name"`
	TemplateFile      string         `json:"template_file"       yaml:"template_file"`
	Scope             string         `json:"scope"               yaml:"scope"`
	Location          string         `json:"location"            yaml:"location"`
	SubscriptionID    string         `json:"subscription_id"     yaml:"subscription_id"`
	ResourceGroup     string         `json:"resource_group"      yaml:"resource_group"`
	ManagementGroupID string         `json:"management_group_id" yaml:"management_group_id"`
	Serial            bool           `json:"serial"              yaml:"serial"`
	DependsOn         []string       `json:"depends_on"          yaml:"depends_on"`
	Parameters        map[string]any `json:"parameters"          yaml:"parameters"`
}

// LibTopologyOutput maps a topology output key to a stage output.
type LibTopologyOutput struct {
	Name   string `json:"name"   yaml:"name"`
	Stage  string `json:"stage"  yaml:"stage"`
	Output string `json:"output" yaml:"output"`
}

// Topology converts the library representation into an assets.Topology
// and validates it.
func (lt *LibTopology) Topology() (*assets.Topology, error) {
	topo := assets.NewTopology(lt.Name)
	topo.DisplayName = lt.DisplayName
	topo.Description = lt.Description

	scope, err := assets.ParseScopeKind(lt.Scope)
	if err != nil {
		return nil, fmt.Errorf("LibTopology.Topology: topology `%s`: %w", lt.Name, err)
	}
	topo.Scope = scope

	network, err := assets.ParseNetworkMode(lt.Network)
	if err != nil {
		return nil, fmt.Errorf("LibTopology.Topology: topology `%s`: %w", lt.Name, err)
	}
	topo.Network = network

	topo.RequiredProviders.Append(lt.RequiredProviders...)

	for _, p := range lt.Parameters {
		if p.Name == "" {
			return nil, NewErrNoNameProvided("parameter in topology " + lt.Name)
		}
		pt := assets.ParameterType(p.Type)
		if pt == "" {
			pt = assets.ParameterString
		}
		topo.Parameters[p.Name] = &assets.ParameterSpec{
			Name:     p.Name,
			Type:     pt,
			Required: p.Required,
			Default:  p.Default,
			EnvVar:   p.Env,
		}
	}

	topo.RequiredTogether = lt.RequiredTogether
	for k, v := range lt.BYOResources {
		topo.BYOResources[k] = v
	}

	for _, s := range lt.Stages {
		stage := assets.NewStage(s.Name, s.TemplateFile)
		if s.Scope != "" {
			sk, err := assets.ParseScopeKind(s.Scope)
			if err != nil {
				return nil, fmt.Errorf("LibTopology.Topology: stage `%s`: %w", s.Name, err)
			}
			stage.Scope = sk
		} else {
			stage.Scope = topo.Scope
		}
		stage.Location = s.Location
		stage.SubscriptionID = s.SubscriptionID
		stage.ResourceGroup = s.ResourceGroup
		stage.ManagementGroupID = s.ManagementGroupID
		stage.Serial = s.Serial
		stage.DependsOn = append(stage.DependsOn, s.DependsOn...)
		for k, v := range s.Parameters {
			stage.Parameters[k] = v
		}
		topo.Stages = append(topo.Stages, stage)
	}

	for _, o := range lt.Outputs {
		topo.Outputs[o.Name] = assets.OutputRef{Stage: o.Stage, Output: o.Output}
	}

	if err := topo.Validate(); err != nil {
		return nil, fmt.Errorf("LibTopology.Topology: %w", err)
	}

	return topo, nil
}
