// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package preflight

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/cognitiveservices/armcognitiveservices"
	"github.com/Azure/foundrylib/pkg/to"
)

// usageLevel is the remaining headroom of one cognitive services usage.
type usageLevel struct {
	current float64
	limit   float64
}

// CheckQuota verifies that the subscription has enough cognitive services
// quota in the location for the requested model capacities. A request for a
// usage name the subscription does not report yields a warning rather than
// a failure: unknown usage names usually mean the model family has never
// been deployed there, which ARM resolves at deployment time.
func (c *Checker) CheckQuota(ctx context.Context, subscriptionID, location string, requests map[string]float64) (Result, error) {
	res := Result{Name: "model quota is available"}
	client, err := armcognitiveservices.NewUsagesClient(subscriptionID, c.cred, c.clientOpts)
	if err != nil {
		return res, fmt.Errorf("Checker.CheckQuota: %w", err)
	}

	levels := make(map[string]usageLevel)
	pager := client.NewListPager(location, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return res, fmt.Errorf("Checker.CheckQuota: %w", err)
		}
		for _, u := range page.Value {
			if u == nil || u.Name == nil || u.Name.Value == nil {
				continue
			}
			levels[*u.Name.Value] = usageLevel{
				current: to.ValOrZero(u.CurrentValue),
				limit:   to.ValOrZero(u.Limit),
			}
		}
	}

	res.Status, res.Detail = evaluateQuota(levels, requests)
	return res, nil
}

// evaluateQuota compares requested capacities against reported usage levels.
func evaluateQuota(levels map[string]usageLevel, requests map[string]float64) (Status, string) {
	names := make([]string, 0, len(requests))
	for n := range requests {
		names = append(names, n)
	}
	sort.Strings(names)

	exceeded := make([]string, 0)
	unknown := make([]string, 0)
	for _, name := range names {
		level, ok := levels[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if level.current+requests[name] > level.limit {
			exceeded = append(exceeded, fmt.Sprintf("%s (used %.0f of %.0f, requested %.0f)", name, level.current, level.limit, requests[name]))
		}
	}

	if len(exceeded) > 0 {
		return StatusFailed, "insufficient quota: " + strings.Join(exceeded, "; ")
	}
	if len(unknown) > 0 {
		return StatusWarning, "usage not reported for: " + strings.Join(unknown, ", ")
	}
	return StatusPassed, fmt.Sprintf("%d usages have headroom", len(requests))
}
