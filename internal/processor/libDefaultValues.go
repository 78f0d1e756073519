// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package processor

// LibDefaultValues represents the top level value that allows a single value to be
// mapped into parameters of multiple topologies.
type LibDefaultValues struct {
	Defaults []LibDefaultValuesDefaults `json:"defaults" yaml:"defaults"`
}

// LibDefaultValuesDefaults represents a named default that maps a single
// value into different topology parameters.
type LibDefaultValuesDefaults struct {
	DefaultName string                        `json:"default_name"          yaml:"default_name"`
	Description string                        `json:"description,omitempty" yaml:"description"`
	Value       any                           `json:"value"                 yaml:"value"`
	Assignments []LibDefaultValuesAssignments `json:"assignments"           yaml:"assignments"`
}

// LibDefaultValuesAssignments represents the topology parameters a default value applies to.
type LibDefaultValuesAssignments struct {
	TopologyName   string   `json:"topology_name"   yaml:"topology_name"`
	ParameterNames []string `json:"parameter_names" yaml:"parameter_names"`
}
