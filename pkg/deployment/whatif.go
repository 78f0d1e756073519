// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/foundrylib/assets"
	"github.com/Azure/foundrylib/pkg/to"
	"go.uber.org/zap"
)

// Change is one predicted resource change from a what-if run.
type Change struct {
	Stage      string
	ChangeType string
	ResourceID string
}

// WhatIf runs ARM what-if for every stage of the plan and returns the
// predicted changes. Stages run sequentially in declaration order. Stage
// parameter bindings to outputs of not-yet-deployed stages are left to
// the template defaults, so cross-stage predictions are approximate.
func (d *Deployer) WhatIf(ctx context.Context, plan *Plan) ([]Change, error) {
	var res []Change
	for _, ps := range plan.Stages {
		params, err := plan.resolveStageParameters(ps, nil, true)
		if err != nil {
			return nil, err
		}
		d.log.Info("what-if for stage",
			zap.String("stage", ps.Stage.Name),
			zap.String("deployment", ps.DeploymentName),
		)
		result, err := d.whatIfStage(ctx, ps, params)
		if err != nil {
			return nil, fmt.Errorf("Deployer.WhatIf: stage `%s`: %w", ps.Stage.Name, err)
		}
		if result.Properties == nil {
			continue
		}
		for _, c := range result.Properties.Changes {
			if c == nil {
				continue
			}
			change := Change{Stage: ps.Stage.Name}
			if c.ChangeType != nil {
				change.ChangeType = string(*c.ChangeType)
			}
			change.ResourceID = to.ValOrZero(c.ResourceID)
			res = append(res, change)
		}
	}
	return res, nil
}

func (d *Deployer) whatIfStage(ctx context.Context, ps *PlannedStage, params map[string]any) (armresources.WhatIfOperationResult, error) {
	client, err := d.deploymentsClient(ps.SubscriptionID)
	if err != nil {
		return armresources.WhatIfOperationResult{}, err
	}
	props := &armresources.DeploymentWhatIfProperties{
		Mode:       to.Ptr(armresources.DeploymentModeIncremental),
		Template:   ps.Template,
		Parameters: params,
	}

	switch ps.Scope {
	case assets.ScopeResourceGroup:
		poller, err := client.BeginWhatIf(ctx, ps.ResourceGroup, ps.DeploymentName, armresources.DeploymentWhatIf{
			Properties: props,
		}, nil)
		if err != nil {
			return armresources.WhatIfOperationResult{}, err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return armresources.WhatIfOperationResult{}, err
		}
		return resp.WhatIfOperationResult, nil
	case assets.ScopeSubscription:
		poller, err := client.BeginWhatIfAtSubscriptionScope(ctx, ps.DeploymentName, armresources.DeploymentWhatIf{
			Location:   to.Ptr(ps.Location),
			Properties: props,
		}, nil)
		if err != nil {
			return armresources.WhatIfOperationResult{}, err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return armresources.WhatIfOperationResult{}, err
		}
		return resp.WhatIfOperationResult, nil
	case assets.ScopeManagementGroup:
		poller, err := client.BeginWhatIfAtManagementGroupScope(ctx, ps.ManagementGroupID, ps.DeploymentName, armresources.ScopedDeploymentWhatIf{
			Location:   to.Ptr(ps.Location),
			Properties: props,
		}, nil)
		if err != nil {
			return armresources.WhatIfOperationResult{}, err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return armresources.WhatIfOperationResult{}, err
		}
		return resp.WhatIfOperationResult, nil
	}
	return armresources.WhatIfOperationResult{}, fmt.Errorf("unknown scope kind `%s`", ps.Scope)
}

// Validate submits every stage of the plan to the ARM preflight validation
// endpoint. The first rejected stage returns its error.
func (d *Deployer) Validate(ctx context.Context, plan *Plan) error {
	for _, ps := range plan.Stages {
		params, err := plan.resolveStageParameters(ps, nil, true)
		if err != nil {
			return err
		}
		if err := d.validateStage(ctx, ps, params); err != nil {
			return fmt.Errorf("Deployer.Validate: stage `%s`: %w", ps.Stage.Name, err)
		}
	}
	return nil
}

func (d *Deployer) validateStage(ctx context.Context, ps *PlannedStage, params map[string]any) error {
	client, err := d.deploymentsClient(ps.SubscriptionID)
	if err != nil {
		return err
	}
	props := &armresources.DeploymentProperties{
		Mode:       to.Ptr(armresources.DeploymentModeIncremental),
		Template:   ps.Template,
		Parameters: params,
	}

	switch ps.Scope {
	case assets.ScopeResourceGroup:
		poller, err := client.BeginValidate(ctx, ps.ResourceGroup, ps.DeploymentName, armresources.Deployment{
			Properties: props,
		}, nil)
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err
	case assets.ScopeSubscription:
		poller, err := client.BeginValidateAtSubscriptionScope(ctx, ps.DeploymentName, armresources.Deployment{
			Location:   to.Ptr(ps.Location),
			Properties: props,
		}, nil)
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err
	case assets.ScopeManagementGroup:
		poller, err := client.BeginValidateAtManagementGroupScope(ctx, ps.ManagementGroupID, ps.DeploymentName, armresources.ScopedDeployment{
			Location:   to.Ptr(ps.Location),
			Properties: props,
		}, nil)
		if err != nil {
			return err
		}
		_, err = poller.PollUntilDone(ctx, nil)
		return err
	}
	return fmt.Errorf("unknown scope kind `%s`", ps.Scope)
}
