// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package preflight

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/Azure/foundrylib/pkg/to"
)

// CheckSubscription verifies that the subscription exists and is enabled.
func (c *Checker) CheckSubscription(ctx context.Context, subscriptionID string) (Result, error) {
	res := Result{Name: "subscription is enabled"}
	client, err := armsubscriptions.NewClient(c.cred, c.clientOpts)
	if err != nil {
		return res, fmt.Errorf("Checker.CheckSubscription: %w", err)
	}
	resp, err := client.Get(ctx, subscriptionID, nil)
	if err != nil {
		res.Status = StatusFailed
		res.Detail = fmt.Sprintf("could not read subscription %s: %v", subscriptionID, err)
		return res, nil
	}
	if resp.State == nil || *resp.State != armsubscriptions.SubscriptionStateEnabled {
		res.Status = StatusFailed
		res.Detail = fmt.Sprintf("subscription %s is in state %s", subscriptionID, stateString(resp.State))
		return res, nil
	}
	res.Status = StatusPassed
	res.Detail = fmt.Sprintf("subscription %s (%s) is enabled", subscriptionID, to.ValOrZero(resp.DisplayName))
	return res, nil
}

// CheckLocation verifies that the location is available to the subscription.
func (c *Checker) CheckLocation(ctx context.Context, subscriptionID, location string) (Result, error) {
	res := Result{Name: "location is available"}
	if location == "" {
		res.Status = StatusWarning
		res.Detail = "no location supplied, skipping"
		return res, nil
	}
	client, err := armsubscriptions.NewClient(c.cred, c.clientOpts)
	if err != nil {
		return res, fmt.Errorf("Checker.CheckLocation: %w", err)
	}
	pager := client.NewListLocationsPager(subscriptionID, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return res, fmt.Errorf("Checker.CheckLocation: %w", err)
		}
		for _, loc := range page.Value {
			if loc == nil || loc.Name == nil {
				continue
			}
			if strings.EqualFold(*loc.Name, location) {
				res.Status = StatusPassed
				res.Detail = fmt.Sprintf("location %s is available", location)
				return res, nil
			}
		}
	}
	res.Status = StatusFailed
	res.Detail = fmt.Sprintf("location %s is not available to subscription %s", location, subscriptionID)
	return res, nil
}

func stateString(s *armsubscriptions.SubscriptionState) string {
	if s == nil {
		return "unknown"
	}
	return string(*s)
}
