// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrOutputNotFound is returned when a topology output references a stage
// output the deployment did not produce.
var ErrOutputNotFound = errors.New("deployment output not found")

// OutputValue is a single typed output of an ARM deployment.
type OutputValue struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// flattenOutputs converts the raw `outputs` object of an ARM deployment
// (a map of name -> {type, value}) into OutputValues.
func flattenOutputs(raw any) map[string]OutputValue {
	res := make(map[string]OutputValue)
	m, ok := raw.(map[string]any)
	if !ok {
		return res
	}
	for name, v := range m {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		ov := OutputValue{Value: entry["value"]}
		if t, ok := entry["type"].(string); ok {
			ov.Type = t
		}
		res[name] = ov
	}
	return res
}

// MapOutputs projects per-stage deployment outputs into the topology's
// declared outputs. Stage outputs not claimed by a declared topology output
// are included under "<stage>.<output>" so nothing a template emitted is
// hidden from the caller.
func (p *Plan) MapOutputs(stageOutputs map[string]map[string]OutputValue) (map[string]OutputValue, error) {
	res := make(map[string]OutputValue)
	claimed := make(map[string]bool)
	for key, ref := range p.Topology.Outputs {
		so, ok := stageOutputs[ref.Stage]
		if !ok {
			return nil, fmt.Errorf("%w: topology output `%s` references stage `%s`, which has no outputs", ErrOutputNotFound, key, ref.Stage)
		}
		ov, ok := so[ref.Output]
		if !ok {
			return nil, fmt.Errorf("%w: topology output `%s` references output `%s` of stage `%s`", ErrOutputNotFound, key, ref.Output, ref.Stage)
		}
		res[key] = ov
		claimed[ref.Stage+"."+ref.Output] = true
	}
	for stage, so := range stageOutputs {
		for name, ov := range so {
			qualified := stage + "." + name
			if claimed[qualified] {
				continue
			}
			if _, ok := res[qualified]; ok {
				continue
			}
			res[qualified] = ov
		}
	}
	return res, nil
}

// FormatOutputsJSON renders outputs as an indented JSON object keyed by
// output name, each value carrying its ARM type and value.
func FormatOutputsJSON(outputs map[string]OutputValue) (string, error) {
	data, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("FormatOutputsJSON: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatOutputs renders outputs as sorted "name = value" lines.
func FormatOutputs(outputs map[string]OutputValue) string {
	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sb := strings.Builder{}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s = %v\n", k, outputs[k].Value)
	}
	return sb.String()
}
