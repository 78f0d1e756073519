// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package doc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"

	"github.com/Azure/foundrylib"
	"github.com/nao1215/markdown"
)

type metadata struct {
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description"`
	Dependencies []struct {
		Path      string `json:"path"`
		Ref       string `json:"ref"`
		CustomURL string `json:"custom_url"`
	} `json:"dependencies"`
}

// FoundryLibReadmeMd renders a README for a topology library: its metadata,
// dependencies, topologies with their stages, and default values.
func FoundryLibReadmeMd(ctx context.Context, w io.Writer, lfs fs.FS) error {
	fl := foundrylib.NewFoundryLib(nil)
	if err := fl.Init(ctx, lfs); err != nil {
		return fmt.Errorf("doc.FoundryLibReadmeMd: failed to initialize library: %w", err)
	}

	metadataFile, err := fs.ReadFile(lfs, "foundry_library_metadata.json")
	if err != nil {
		return fmt.Errorf("doc.FoundryLibReadmeMd: failed to read foundry_library_metadata.json: %w", err)
	}
	var metad metadata
	if err := json.Unmarshal(metadataFile, &metad); err != nil {
		return fmt.Errorf("doc.FoundryLibReadmeMd: failed to parse foundry_library_metadata.json: %w", err)
	}

	deps := make([]string, 0, len(metad.Dependencies))
	for _, d := range metad.Dependencies {
		if d.CustomURL != "" {
			deps = append(deps, d.CustomURL)
			continue
		}
		deps = append(deps, fmt.Sprintf("%s@%s", d.Path, d.Ref))
	}

	md := markdown.NewMarkdown(w).
		H1f("%s (%s)", metad.DisplayName, metad.Name).LF().
		PlainText(metad.Description).LF()

	if len(deps) > 0 {
		md = md.H2("Dependencies").LF().
			BulletList(deps...).LF()
	}

	md = md.H2("Topologies").LF()
	for _, name := range fl.TopologyNames() {
		topo := fl.Topology(name)
		md = md.H3f("%s", name).LF().
			PlainText(topo.Description).LF().
			PlainTextf("Scope: %s, network: %s", topo.Scope, topo.Network).LF().
			H4("Stages").LF().
			BulletList(topo.StageNames()...).LF().
			H4("Parameters").LF()

		rows := make([][]string, 0, len(topo.Parameters))
		for _, pname := range topo.ParameterNames() {
			spec := topo.Parameters[pname]
			required := ""
			if spec.Required {
				required = "yes"
			}
			rows = append(rows, []string{pname, string(spec.Type), required, spec.EnvVar})
		}
		md = md.Table(markdown.TableSet{
			Header: []string{"Name", "Type", "Required", "Env"},
			Rows:   rows,
		}).LF()
	}

	return md.H2("Default Values").LF().
		BulletList(fl.DefaultValueNames()...).Build()
}
