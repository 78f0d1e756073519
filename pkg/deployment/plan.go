// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Azure/foundrylib/assets"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

var (
	// ErrMissingScope is returned when the plan request does not carry the
	// scope identifiers a stage needs.
	ErrMissingScope = errors.New("missing scope identifier for stage")

	// ErrUnresolvedReference is returned when a stage parameter binding
	// references an unknown parameter or stage output.
	ErrUnresolvedReference = errors.New("unresolved reference in stage parameter binding")
)

// referenceRegex matches "${parameters.<name>}" and "${stages.<stage>.outputs.<key>}" bindings.
var referenceRegex = regexp.MustCompile(`^\$\{(parameters)\.([a-zA-Z0-9_-]+)\}$|^\$\{(stages)\.([a-zA-Z0-9_-]+)\.outputs\.([a-zA-Z0-9_-]+)\}$`)

// TemplateSource supplies the raw ARM template document for a stage.
// *foundrylib.FoundryLib satisfies this interface.
type TemplateSource interface {
	Template(topologyName, stageName string) ([]byte, error)
}

// PlanRequest carries everything needed to build a Plan.
type PlanRequest struct {
	Topology  *assets.Topology
	Templates TemplateSource

	// Parameter layers in increasing precedence. LibraryDefaults come from
	// FoundryLib.DefaultParameterValues, Files from LoadParameterFile.
	LibraryDefaults map[string]any
	Files           []map[string]any
	EnvLookup       func(string) (string, bool)
	Overrides       map[string]any

	// Plan-level scope. Stages inherit these unless they bind their own.
	Location          string
	SubscriptionID    string
	ResourceGroup     string
	ManagementGroupID string

	// NamePrefix prefixes the deterministic deployment names.
	NamePrefix string
}

// Plan is an executable deployment plan for one topology.
// Do not create this struct directly, use NewPlan instead.
type Plan struct {
	Topology   *assets.Topology
	Parameters map[string]any
	Stages     []*PlannedStage
	NamePrefix string
}

// PlannedStage is a stage bound to its scope, template document and
// deployment name.
type PlannedStage struct {
	Stage             *assets.Stage
	DeploymentName    string
	Scope             assets.ScopeKind
	SubscriptionID    string
	ResourceGroup     string
	ManagementGroupID string
	Location          string
	Template          map[string]any
}

// NewPlan builds a Plan from the request: parameter layers are merged and
// validated, each stage is bound to its scope, and template documents are
// loaded and parsed. No network calls are made.
func NewPlan(req *PlanRequest) (*Plan, error) {
	if req.Topology == nil {
		return nil, errors.New("deployment.NewPlan: topology is nil")
	}
	if req.Templates == nil {
		return nil, errors.New("deployment.NewPlan: template source is nil")
	}
	topo := req.Topology

	envLayer, err := EnvParameterLayer(topo, req.EnvLookup)
	if err != nil {
		return nil, fmt.Errorf("deployment.NewPlan: %w", err)
	}

	layers := make([]map[string]any, 0, len(req.Files)+3)
	layers = append(layers, req.LibraryDefaults)
	layers = append(layers, req.Files...)
	layers = append(layers, envLayer, req.Overrides)

	params, err := MergeParameterLayers(topo, layers...)
	if err != nil {
		return nil, fmt.Errorf("deployment.NewPlan: %w", err)
	}

	if err := ValidateParameters(topo, params); err != nil {
		return nil, err
	}

	plan := &Plan{
		Topology:   topo,
		Parameters: params,
		Stages:     make([]*PlannedStage, 0, len(topo.Stages)),
		NamePrefix: req.NamePrefix,
	}

	for _, stage := range topo.Stages {
		ps, err := bindStage(req, topo, stage)
		if err != nil {
			return nil, err
		}
		if err := checkStageReferences(topo, stage); err != nil {
			return nil, err
		}
		plan.Stages = append(plan.Stages, ps)
	}

	return plan, nil
}

// bindStage resolves the scope identifiers and template for a single stage.
func bindStage(req *PlanRequest, topo *assets.Topology, stage *assets.Stage) (*PlannedStage, error) {
	ps := &PlannedStage{
		Stage:             stage,
		DeploymentName:    DeploymentName(req.NamePrefix, topo.Name, stage.Name),
		Scope:             topo.EffectiveScope(stage),
		SubscriptionID:    firstNonEmpty(stage.SubscriptionID, req.SubscriptionID),
		ResourceGroup:     firstNonEmpty(stage.ResourceGroup, req.ResourceGroup),
		ManagementGroupID: firstNonEmpty(stage.ManagementGroupID, req.ManagementGroupID),
		Location:          firstNonEmpty(stage.Location, req.Location),
	}

	switch ps.Scope {
	case assets.ScopeResourceGroup:
		if ps.SubscriptionID == "" || ps.ResourceGroup == "" {
			return nil, fmt.Errorf("%w: stage `%s` needs a subscription and resource group", ErrMissingScope, stage.Name)
		}
	case assets.ScopeSubscription:
		if ps.SubscriptionID == "" || ps.Location == "" {
			return nil, fmt.Errorf("%w: stage `%s` needs a subscription and location", ErrMissingScope, stage.Name)
		}
	case assets.ScopeManagementGroup:
		if ps.ManagementGroupID == "" || ps.Location == "" {
			return nil, fmt.Errorf("%w: stage `%s` needs a management group and location", ErrMissingScope, stage.Name)
		}
	}

	raw, err := req.Templates.Template(topo.Name, stage.Name)
	if err != nil {
		return nil, fmt.Errorf("deployment.NewPlan: error loading template for stage `%s`: %w", stage.Name, err)
	}
	tmpl := make(map[string]any)
	if err := json.Unmarshal(raw, &tmpl); err != nil {
		return nil, fmt.Errorf("deployment.NewPlan: template for stage `%s` is not valid JSON: %w", stage.Name, err)
	}
	ps.Template = tmpl

	return ps, nil
}

// ValidateStageReferences verifies every stage parameter binding of the
// topology without building a plan. Used by library-level validation.
func ValidateStageReferences(topo *assets.Topology) error {
	for _, stage := range topo.Stages {
		if err := checkStageReferences(topo, stage); err != nil {
			return err
		}
	}
	return nil
}

// checkStageReferences verifies that every binding reference resolves to a
// declared parameter or to an output of a stage this stage depends on
// (directly or transitively).
func checkStageReferences(topo *assets.Topology, stage *assets.Stage) error {
	reachable := transitiveDependencies(topo, stage)
	for bindingName, v := range stage.Parameters {
		s, ok := v.(string)
		if !ok {
			continue
		}
		m := referenceRegex.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		switch {
		case m[1] == "parameters":
			if _, ok := topo.Parameters[m[2]]; !ok {
				return fmt.Errorf("%w: stage `%s` binding `%s` references unknown parameter `%s`", ErrUnresolvedReference, stage.Name, bindingName, m[2])
			}
		case m[3] == "stages":
			if !reachable.Contains(m[4]) {
				return fmt.Errorf("%w: stage `%s` binding `%s` references stage `%s`, which it does not depend on", ErrUnresolvedReference, stage.Name, bindingName, m[4])
			}
		}
	}
	return nil
}

// ResolveStageParameters materializes the ARM parameter document for a
// stage from the plan parameters and the outputs of completed stages.
// Bindings that resolve to nil are omitted so template defaults apply.
func (p *Plan) ResolveStageParameters(ps *PlannedStage, outputs map[string]map[string]OutputValue) (map[string]any, error) {
	return p.resolveStageParameters(ps, outputs, false)
}

// resolveStageParameters is the lenient-capable implementation. In lenient
// mode an unavailable stage output drops the binding instead of erroring,
// which what-if needs because the upstream deployments have not run.
func (p *Plan) resolveStageParameters(ps *PlannedStage, outputs map[string]map[string]OutputValue, lenient bool) (map[string]any, error) {
	res := make(map[string]any, len(ps.Stage.Parameters))
	for name, v := range ps.Stage.Parameters {
		val := v
		if s, ok := v.(string); ok {
			if m := referenceRegex.FindStringSubmatch(s); m != nil {
				switch {
				case m[1] == "parameters":
					val = p.Parameters[m[2]]
				case m[3] == "stages":
					ov, ok := outputs[m[4]][m[5]]
					if !ok {
						if lenient {
							continue
						}
						return nil, fmt.Errorf("%w: output `%s` of stage `%s` not available", ErrUnresolvedReference, m[5], m[4])
					}
					val = ov.Value
				}
			}
		}
		if val == nil {
			continue
		}
		if s, ok := val.(string); ok && s == "" {
			// Empty strings fall back to template defaults too: the catalog's
			// optional BYO parameters use "" as the not-supplied sentinel.
			continue
		}
		res[name] = map[string]any{"value": val}
	}
	return res, nil
}

// DeploymentName returns a readable, deterministic deployment name so a
// later run (or the outputs command) can find the same deployments again.
func DeploymentName(prefix, topology, stage string) string {
	parts := make([]string, 0, 4)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	id := uuidV5(prefix, topology, stage).String()
	parts = append(parts, topology, stage, id[:8])
	return strings.Join(parts, "-")
}

// transitiveDependencies returns the set of stage names reachable from the
// stage's DependsOn edges. DependsOn only references earlier stages, so a
// single declaration-order walk is enough.
func transitiveDependencies(topo *assets.Topology, stage *assets.Stage) mapset.Set[string] {
	res := mapset.NewThreadUnsafeSet[string]()
	pending := append([]string{}, stage.DependsOn...)
	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]
		if res.Contains(name) {
			continue
		}
		res.Add(name)
		if dep := topo.Stage(name); dep != nil {
			pending = append(pending, dep.DependsOn...)
		}
	}
	return res
}

func uuidV5(s ...string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join(s, "")))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
