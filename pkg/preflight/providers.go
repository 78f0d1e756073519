// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package preflight

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/foundrylib/assets"
)

const providerStateRegistered = "Registered"

// CheckProviders verifies that every resource provider the topology
// requires is registered in the subscription.
func (c *Checker) CheckProviders(ctx context.Context, subscriptionID string, topo *assets.Topology) (Result, error) {
	res := Result{Name: "required resource providers are registered"}
	required := topo.RequiredProviders.ToSlice()
	sort.Strings(required)
	if len(required) == 0 {
		res.Status = StatusPassed
		res.Detail = "topology requires no resource providers"
		return res, nil
	}

	client, err := armresources.NewProvidersClient(subscriptionID, c.cred, c.clientOpts)
	if err != nil {
		return res, fmt.Errorf("Checker.CheckProviders: %w", err)
	}

	unregistered := make([]string, 0)
	for _, ns := range required {
		resp, err := client.Get(ctx, ns, nil)
		if err != nil {
			return res, fmt.Errorf("Checker.CheckProviders: error reading provider %s: %w", ns, err)
		}
		if resp.RegistrationState == nil || *resp.RegistrationState != providerStateRegistered {
			unregistered = append(unregistered, ns)
		}
	}

	if len(unregistered) > 0 {
		res.Status = StatusFailed
		res.Detail = fmt.Sprintf("unregistered providers: %s", strings.Join(unregistered, ", "))
		return res, nil
	}
	res.Status = StatusPassed
	res.Detail = fmt.Sprintf("%d providers registered", len(required))
	return res, nil
}

// RegisterProviders submits registration requests for every resource
// provider the topology requires. Registration is asynchronous on the ARM
// side; re-run CheckProviders to observe completion.
func (c *Checker) RegisterProviders(ctx context.Context, subscriptionID string, topo *assets.Topology) error {
	client, err := armresources.NewProvidersClient(subscriptionID, c.cred, c.clientOpts)
	if err != nil {
		return fmt.Errorf("Checker.RegisterProviders: %w", err)
	}
	for _, ns := range topo.RequiredProviders.ToSlice() {
		if _, err := client.Register(ctx, ns, nil); err != nil {
			return fmt.Errorf("Checker.RegisterProviders: error registering %s: %w", ns, err)
		}
	}
	return nil
}
