// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Azure/foundrylib/assets"
	"github.com/brunoga/deep"
	"gopkg.in/yaml.v3"
)

var (
	// ErrRequiredParameters is returned when required parameters are not supplied.
	ErrRequiredParameters = errors.New("required parameters not set")

	// ErrRequiredTogether is returned when only part of a mutually-required parameter group is supplied.
	ErrRequiredTogether = errors.New("incomplete parameter group")

	// ErrBicepParamFile is returned when a .bicepparam file is supplied.
	// Compiling Bicep parameter files is out of scope; callers should compile
	// them to ARM parameter JSON first (`az bicep build-params`).
	ErrBicepParamFile = errors.New("bicepparam files are not supported, compile to ARM parameters JSON first")

	// ErrUnsupportedParameterFile is returned for unknown parameter file extensions.
	ErrUnsupportedParameterFile = errors.New("unsupported parameter file extension")
)

// armParameterFile is the shape of an ARM deployment parameters JSON document.
type armParameterFile struct {
	Parameters map[string]struct {
		Value any `json:"value"`
	} `json:"parameters"`
}

// LoadParameterFile reads a parameter file from disk and returns a flat
// name -> value map. Supported formats are ARM deployment parameters JSON
// (documents with a top-level "parameters" object), flat JSON objects, and
// flat YAML mappings.
func LoadParameterFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("deployment.LoadParameterFile: error reading %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return parseJSONParameters(path, data)
	case ".yaml", ".yml":
		res := make(map[string]any)
		if err := yaml.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("deployment.LoadParameterFile: error parsing %s: %w", path, err)
		}
		return res, nil
	case ".bicepparam":
		return nil, fmt.Errorf("deployment.LoadParameterFile: %s: %w", path, ErrBicepParamFile)
	default:
		return nil, fmt.Errorf("deployment.LoadParameterFile: %s: %w", path, ErrUnsupportedParameterFile)
	}
}

func parseJSONParameters(path string, data []byte) (map[string]any, error) {
	// Try the ARM parameters document shape first, fall back to a flat map.
	armFile := armParameterFile{}
	if err := json.Unmarshal(data, &armFile); err == nil && len(armFile.Parameters) > 0 {
		res := make(map[string]any, len(armFile.Parameters))
		for k, v := range armFile.Parameters {
			res[k] = v.Value
		}
		return res, nil
	}

	res := make(map[string]any)
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("deployment.LoadParameterFile: error parsing %s: %w", path, err)
	}
	return res, nil
}

// EnvParameterLayer builds a parameter layer from environment variables.
// Each topology parameter with an env alias that resolves through lookup is
// converted to its declared type. Pass os.LookupEnv as the lookup.
func EnvParameterLayer(topo *assets.Topology, lookup func(string) (string, bool)) (map[string]any, error) {
	res := make(map[string]any)
	if lookup == nil {
		return res, nil
	}
	for name, spec := range topo.Parameters {
		if spec.EnvVar == "" {
			continue
		}
		raw, ok := lookup(spec.EnvVar)
		if !ok || raw == "" {
			continue
		}
		v, err := convertParameterValue(spec, raw)
		if err != nil {
			return nil, fmt.Errorf("deployment.EnvParameterLayer: %s (from %s): %w", name, spec.EnvVar, err)
		}
		res[name] = v
	}
	return res, nil
}

// convertParameterValue converts a string representation to the declared parameter type.
func convertParameterValue(spec *assets.ParameterSpec, raw string) (any, error) {
	switch spec.Type {
	case assets.ParameterInt:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("could not parse `%s` as int: %w", raw, err)
		}
		return i, nil
	case assets.ParameterBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("could not parse `%s` as bool: %w", raw, err)
		}
		return b, nil
	case assets.ParameterObject, assets.ParameterArray:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("could not parse `%s` as JSON: %w", raw, err)
		}
		return v, nil
	default:
		return raw, nil
	}
}

// MergeParameterLayers merges parameter layers in increasing precedence
// (later layers win). The topology's own parameter defaults form the base
// layer. Values are deep-copied so the result never aliases its inputs.
func MergeParameterLayers(topo *assets.Topology, layers ...map[string]any) (map[string]any, error) {
	res := make(map[string]any)
	for name, spec := range topo.Parameters {
		if spec.Default == nil {
			continue
		}
		cp, err := deep.Copy(spec.Default)
		if err != nil {
			return nil, fmt.Errorf("deployment.MergeParameterLayers: error copying default for `%s`: %w", name, err)
		}
		res[name] = cp
	}
	for _, layer := range layers {
		for k, v := range layer {
			cp, err := deep.Copy(v)
			if err != nil {
				return nil, fmt.Errorf("deployment.MergeParameterLayers: error copying value for `%s`: %w", k, err)
			}
			res[k] = cp
		}
	}
	return res, nil
}

// ValidateParameters evaluates the topology's precondition guards against
// the merged parameter set: required parameters, mutually-required groups,
// and BYO resource ID types. It fails fast, before any network call.
func ValidateParameters(topo *assets.Topology, params map[string]any) error {
	missing := make([]string, 0)
	for _, name := range topo.ParameterNames() {
		spec := topo.Parameters[name]
		if !spec.Required {
			continue
		}
		if !parameterSet(params, name) {
			missing = append(missing, parameterDisplayName(spec))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s must be set", ErrRequiredParameters, strings.Join(missing, ", "))
	}

	for _, group := range topo.RequiredTogether {
		set := 0
		display := make([]string, len(group))
		for i, name := range group {
			display[i] = parameterDisplayName(topo.Parameters[name])
			if parameterSet(params, name) {
				set++
			}
		}
		if set != 0 && set != len(group) {
			return fmt.Errorf("%w: %s are required", ErrRequiredTogether, strings.Join(display, ", "))
		}
	}

	for name, expectedType := range topo.BYOResources {
		v, ok := params[name]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if err := assets.ValidateResourceType(s, expectedType); err != nil {
			return fmt.Errorf("deployment.ValidateParameters: parameter `%s`: %w", name, err)
		}
	}

	return nil
}

// parameterDisplayName prefers the env alias, matching the error messages
// of the catalog's shell-based guards.
func parameterDisplayName(spec *assets.ParameterSpec) string {
	if spec.EnvVar != "" {
		return spec.EnvVar
	}
	return spec.Name
}

func parameterSet(params map[string]any, name string) bool {
	v, ok := params[name]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && s == "" {
		return false
	}
	return true
}
