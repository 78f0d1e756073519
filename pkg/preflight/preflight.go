// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package preflight verifies that an Azure environment can host a topology
// deployment before anything is submitted to ARM: subscription state,
// region validity, resource provider registration, the caller's role
// assignments and the subscription's model quota.
package preflight

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/foundrylib/assets"
	"go.uber.org/zap"
)

// Status is the outcome of a single preflight check.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// Result is the outcome of one preflight check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Failed reports whether any result failed. Warnings do not fail a run.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Checker runs preflight checks against a subscription.
// Do not create this struct directly, use NewChecker instead.
type Checker struct {
	cred       azcore.TokenCredential
	clientOpts *arm.ClientOptions
	log        *zap.Logger
}

// CheckerOptions are the options for NewChecker.
// A nil options struct selects the defaults.
type CheckerOptions struct {
	ClientOptions *arm.ClientOptions
	Logger        *zap.Logger
}

// NewChecker creates a new Checker with the given credential.
func NewChecker(cred azcore.TokenCredential, opts *CheckerOptions) *Checker {
	if opts == nil {
		opts = new(CheckerOptions)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{
		cred:       cred,
		clientOpts: opts.ClientOptions,
		log:        log,
	}
}

// Request describes one preflight run.
type Request struct {
	Topology       *assets.Topology
	SubscriptionID string
	Location       string

	// PrincipalID is the object id of the deploying identity. The role
	// assignment check is skipped when empty.
	PrincipalID string

	// ModelRequests maps cognitive services usage names
	// (e.g. "OpenAI.GlobalStandard.gpt-4o") to the capacity the
	// deployment will consume.
	ModelRequests map[string]float64
}

// Run executes all preflight checks and returns their results. Checks keep
// going after a failure so one run reports everything wrong at once. An
// error is only returned when a check cannot be evaluated at all.
func (c *Checker) Run(ctx context.Context, req *Request) ([]Result, error) {
	if req.Topology == nil {
		return nil, fmt.Errorf("preflight.Run: topology is nil")
	}
	results := make([]Result, 0, 5)

	r, err := c.CheckSubscription(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}
	results = append(results, r)

	r, err = c.CheckLocation(ctx, req.SubscriptionID, req.Location)
	if err != nil {
		return nil, err
	}
	results = append(results, r)

	r, err = c.CheckProviders(ctx, req.SubscriptionID, req.Topology)
	if err != nil {
		return nil, err
	}
	results = append(results, r)

	if req.PrincipalID != "" {
		r, err = c.CheckRoleAssignments(ctx, req.SubscriptionID, req.PrincipalID)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	if len(req.ModelRequests) > 0 {
		r, err = c.CheckQuota(ctx, req.SubscriptionID, req.Location, req.ModelRequests)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	for _, res := range results {
		c.log.Info("preflight check",
			zap.String("check", res.Name),
			zap.String("status", string(res.Status)),
			zap.String("detail", res.Detail),
		)
	}
	return results, nil
}
