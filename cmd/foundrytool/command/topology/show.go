// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package topology

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/Azure/foundrylib/assets"
	"github.com/spf13/cobra"
)

var showCmd = cobra.Command{
	Use:   "show [flags] name",
	Short: "Show the details of one topology.",
	Long:  `Show the stages, parameters and outputs of one topology.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fl, err := initLibrary(cmd)
		if err != nil {
			cmd.PrintErrf("%s topology show error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		topo := fl.Topology(args[0])
		if topo == nil {
			cmd.PrintErrf("%s topology show error: topology `%s` not found, available: %s\n", cmd.ErrPrefix(), args[0], strings.Join(fl.TopologyNames(), ", "))
			os.Exit(1)
		}

		format, _ := cmd.Flags().GetString("output") // nolint: errcheck
		switch format {
		case "json":
			data, err := json.MarshalIndent(topologyView(topo), "", "  ")
			if err != nil {
				cmd.PrintErrf("%s topology show error: %v\n", cmd.ErrPrefix(), err)
				os.Exit(1)
			}
			cmd.Println(string(data))
		case "text":
			showText(cmd, topo)
		default:
			cmd.PrintErrf("%s topology show error: unknown output format `%s`, expected json or text\n", cmd.ErrPrefix(), format)
			os.Exit(1)
		}
	},
}

func init() {
	showCmd.Flags().StringP("output", "o", "json", "Output format, json or text.")
}

// showTopology is the serializable projection of a topology, in the shape
// of the catalog's topology definition files.
type showTopology struct {
	Name              string          `json:"name"`
	DisplayName       string          `json:"display_name,omitempty"`
	Description       string          `json:"description,omitempty"`
	Scope             string          `json:"scope"`
	Network           string          `json:"network"`
	RequiredProviders []string        `json:"required_providers,omitempty"`
	Parameters        []showParameter `json:"parameters"`
	Stages            []showStage     `json:"stages"`
	Outputs           []showOutput    `json:"outputs,omitempty"`
}

type showParameter struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Default  any    `json:"default,omitempty"`
	Env      string `json:"env,omitempty"`
}

type showStage struct {
	Name         string   `json:"name"`
	TemplateFile string   `json:"template_file"`
	Scope        string   `json:"scope"`
	Serial       bool     `json:"serial,omitempty"`
	DependsOn    []string `json:"depends_on,omitempty"`
}

type showOutput struct {
	Name   string `json:"name"`
	Stage  string `json:"stage"`
	Output string `json:"output"`
}

func topologyView(topo *assets.Topology) showTopology {
	view := showTopology{
		Name:              topo.Name,
		DisplayName:       topo.DisplayName,
		Description:       topo.Description,
		Scope:             string(topo.Scope),
		Network:           string(topo.Network),
		RequiredProviders: topo.RequiredProviders.ToSlice(),
		Parameters:        make([]showParameter, 0, len(topo.Parameters)),
		Stages:            make([]showStage, 0, len(topo.Stages)),
		Outputs:           make([]showOutput, 0, len(topo.Outputs)),
	}
	sort.Strings(view.RequiredProviders)

	for _, name := range topo.ParameterNames() {
		spec := topo.Parameters[name]
		view.Parameters = append(view.Parameters, showParameter{
			Name:     spec.Name,
			Type:     string(spec.Type),
			Required: spec.Required,
			Default:  spec.Default,
			Env:      spec.EnvVar,
		})
	}

	for _, stage := range topo.Stages {
		view.Stages = append(view.Stages, showStage{
			Name:         stage.Name,
			TemplateFile: stage.TemplateFile,
			Scope:        string(topo.EffectiveScope(stage)),
			Serial:       stage.Serial,
			DependsOn:    stage.DependsOn,
		})
	}

	for _, key := range sortedOutputKeys(topo) {
		ref := topo.Outputs[key]
		view.Outputs = append(view.Outputs, showOutput{
			Name:   key,
			Stage:  ref.Stage,
			Output: ref.Output,
		})
	}

	return view
}

func showText(cmd *cobra.Command, topo *assets.Topology) {
	cmd.Printf("%s (%s)\n", topo.Name, topo.DisplayName)
	if topo.Description != "" {
		cmd.Printf("%s\n", topo.Description)
	}
	cmd.Printf("scope: %s\nnetwork: %s\n", topo.Scope, topo.Network)

	cmd.Println("\nstages:")
	for _, stage := range topo.Stages {
		line := "  " + stage.Name
		if len(stage.DependsOn) > 0 {
			line += " (depends on " + strings.Join(stage.DependsOn, ", ") + ")"
		}
		if stage.Serial {
			line += " [serial]"
		}
		cmd.Println(line)
	}

	cmd.Println("\nparameters:")
	for _, name := range topo.ParameterNames() {
		spec := topo.Parameters[name]
		line := "  " + name + " (" + string(spec.Type) + ")"
		if spec.Required {
			line += " required"
		}
		if spec.EnvVar != "" {
			line += " env=" + spec.EnvVar
		}
		cmd.Println(line)
	}

	if len(topo.Outputs) > 0 {
		cmd.Println("\noutputs:")
		for _, key := range sortedOutputKeys(topo) {
			ref := topo.Outputs[key]
			cmd.Printf("  %s <- %s.%s\n", key, ref.Stage, ref.Output)
		}
	}
}

func sortedOutputKeys(topo *assets.Topology) []string {
	keys := make([]string, 0, len(topo.Outputs))
	for key := range topo.Outputs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
