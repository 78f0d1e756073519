// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/foundrylib/assets"
	"github.com/Azure/foundrylib/pkg/to"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultParallelism = 5

// Deployer executes plans against ARM.
// Do not create this struct directly, use NewDeployer instead.
type Deployer struct {
	cred        azcore.TokenCredential
	clientOpts  *arm.ClientOptions
	log         *zap.Logger
	parallelism int
	mu          sync.Mutex
	clients     map[string]*armresources.DeploymentsClient
}

// DeployerOptions are the options for NewDeployer.
// A nil options struct selects the defaults.
type DeployerOptions struct {
	ClientOptions *arm.ClientOptions
	Logger        *zap.Logger
	Parallelism   int
}

// NewDeployer creates a new Deployer with the given credential.
func NewDeployer(cred azcore.TokenCredential, opts *DeployerOptions) *Deployer {
	if opts == nil {
		opts = new(DeployerOptions)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	return &Deployer{
		cred:        cred,
		clientOpts:  opts.ClientOptions,
		log:         log,
		parallelism: parallelism,
		clients:     make(map[string]*armresources.DeploymentsClient),
	}
}

// deploymentsClient returns a cached DeploymentsClient for the subscription.
// Management group scoped stages still need a client, which ARM keys by an
// (unused) subscription id, so the stage's subscription binding is used.
func (d *Deployer) deploymentsClient(subscriptionID string) (*armresources.DeploymentsClient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.clients[subscriptionID]; ok {
		return c, nil
	}
	c, err := armresources.NewDeploymentsClient(subscriptionID, d.cred, d.clientOpts)
	if err != nil {
		return nil, fmt.Errorf("Deployer.deploymentsClient: %w", err)
	}
	d.clients[subscriptionID] = c
	return c, nil
}

// Apply executes the plan. Stages run in waves: a stage joins a wave when
// all of its dependencies completed in earlier waves, waves run their
// members concurrently up to the parallelism limit, and a Serial stage
// always runs in a wave of its own. Returns the mapped topology outputs.
func (d *Deployer) Apply(ctx context.Context, plan *Plan) (map[string]OutputValue, error) {
	stageOutputs := make(map[string]map[string]OutputValue, len(plan.Stages))
	var outMu sync.Mutex

	for _, wave := range waves(plan) {
		grp, gctx := errgroup.WithContext(ctx)
		grp.SetLimit(d.parallelism)
		for _, ps := range wave {
			ps := ps
			grp.Go(func() error {
				d.log.Info("deploying stage",
					zap.String("topology", plan.Topology.Name),
					zap.String("stage", ps.Stage.Name),
					zap.String("deployment", ps.DeploymentName),
					zap.String("scope", string(ps.Scope)),
				)
				outMu.Lock()
				params, err := plan.ResolveStageParameters(ps, stageOutputs)
				outMu.Unlock()
				if err != nil {
					return err
				}
				outputs, err := d.deployStage(gctx, ps, params)
				if err != nil {
					return fmt.Errorf("Deployer.Apply: stage `%s`: %w", ps.Stage.Name, err)
				}
				outMu.Lock()
				stageOutputs[ps.Stage.Name] = outputs
				outMu.Unlock()
				d.log.Info("stage deployed",
					zap.String("stage", ps.Stage.Name),
					zap.Int("outputs", len(outputs)),
				)
				return nil
			})
		}
		if err := grp.Wait(); err != nil {
			return nil, err
		}
	}

	return plan.MapOutputs(stageOutputs)
}

// deployStage submits one ARM deployment and waits for it to finish.
func (d *Deployer) deployStage(ctx context.Context, ps *PlannedStage, params map[string]any) (map[string]OutputValue, error) {
	client, err := d.deploymentsClient(ps.SubscriptionID)
	if err != nil {
		return nil, err
	}
	props := &armresources.DeploymentProperties{
		Mode:       to.Ptr(armresources.DeploymentModeIncremental),
		Template:   ps.Template,
		Parameters: params,
	}

	var extended armresources.DeploymentExtended
	switch ps.Scope {
	case assets.ScopeResourceGroup:
		poller, err := client.BeginCreateOrUpdate(ctx, ps.ResourceGroup, ps.DeploymentName, armresources.Deployment{
			Properties: props,
		}, nil)
		if err != nil {
			return nil, err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return nil, err
		}
		extended = resp.DeploymentExtended
	case assets.ScopeSubscription:
		poller, err := client.BeginCreateOrUpdateAtSubscriptionScope(ctx, ps.DeploymentName, armresources.Deployment{
			Location:   to.Ptr(ps.Location),
			Properties: props,
		}, nil)
		if err != nil {
			return nil, err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return nil, err
		}
		extended = resp.DeploymentExtended
	case assets.ScopeManagementGroup:
		poller, err := client.BeginCreateOrUpdateAtManagementGroupScope(ctx, ps.ManagementGroupID, ps.DeploymentName, armresources.ScopedDeployment{
			Location:   to.Ptr(ps.Location),
			Properties: props,
		}, nil)
		if err != nil {
			return nil, err
		}
		resp, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return nil, err
		}
		extended = resp.DeploymentExtended
	default:
		return nil, fmt.Errorf("unknown scope kind `%s`", ps.Scope)
	}

	if extended.Properties == nil {
		return map[string]OutputValue{}, nil
	}
	return flattenOutputs(extended.Properties.Outputs), nil
}

// StageOutputs reads back the outputs of a previously applied plan using
// the deterministic deployment names. Stages that have not been deployed
// are absent from the result.
func (d *Deployer) StageOutputs(ctx context.Context, plan *Plan) (map[string]map[string]OutputValue, error) {
	res := make(map[string]map[string]OutputValue, len(plan.Stages))
	for _, ps := range plan.Stages {
		client, err := d.deploymentsClient(ps.SubscriptionID)
		if err != nil {
			return nil, err
		}
		var extended armresources.DeploymentExtended
		var getErr error
		switch ps.Scope {
		case assets.ScopeResourceGroup:
			resp, err := client.Get(ctx, ps.ResourceGroup, ps.DeploymentName, nil)
			extended, getErr = resp.DeploymentExtended, err
		case assets.ScopeSubscription:
			resp, err := client.GetAtSubscriptionScope(ctx, ps.DeploymentName, nil)
			extended, getErr = resp.DeploymentExtended, err
		case assets.ScopeManagementGroup:
			resp, err := client.GetAtManagementGroupScope(ctx, ps.ManagementGroupID, ps.DeploymentName, nil)
			extended, getErr = resp.DeploymentExtended, err
		}
		if getErr != nil {
			if isNotFound(getErr) {
				d.log.Debug("deployment not found", zap.String("deployment", ps.DeploymentName))
				continue
			}
			return nil, fmt.Errorf("Deployer.StageOutputs: stage `%s`: %w", ps.Stage.Name, getErr)
		}
		if extended.Properties == nil {
			continue
		}
		res[ps.Stage.Name] = flattenOutputs(extended.Properties.Outputs)
	}
	return res, nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

// waves partitions the plan's stages into sequential waves.
func waves(plan *Plan) [][]*PlannedStage {
	var res [][]*PlannedStage
	done := make(map[string]bool, len(plan.Stages))
	current := make([]*PlannedStage, 0)
	currentNames := make(map[string]bool)

	flush := func() {
		if len(current) == 0 {
			return
		}
		res = append(res, current)
		for n := range currentNames {
			done[n] = true
		}
		current = make([]*PlannedStage, 0)
		currentNames = make(map[string]bool)
	}

	for _, ps := range plan.Stages {
		ready := true
		for _, dep := range ps.Stage.DependsOn {
			if !done[dep] {
				ready = false
				break
			}
		}
		if !ready || ps.Stage.Serial {
			flush()
		}
		current = append(current, ps)
		currentNames[ps.Stage.Name] = true
		if ps.Stage.Serial {
			flush()
		}
	}
	flush()
	return res
}
