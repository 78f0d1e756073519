// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package preflight

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v2"
	"github.com/Azure/foundrylib/pkg/to"
	mapset "github.com/deckarep/golang-set/v2"
)

const (
	roleOwner           = "Owner"
	roleContributor     = "Contributor"
	roleUserAccessAdmin = "User Access Administrator"
	roleRBACAdmin       = "Role Based Access Control Administrator"
)

// CheckRoleAssignments verifies that the principal holds roles sufficient
// to deploy a topology: Owner, or Contributor combined with a role that can
// create role assignments.
func (c *Checker) CheckRoleAssignments(ctx context.Context, subscriptionID, principalID string) (Result, error) {
	res := Result{Name: "deploying identity has sufficient roles"}

	raClient, err := armauthorization.NewRoleAssignmentsClient(subscriptionID, c.cred, c.clientOpts)
	if err != nil {
		return res, fmt.Errorf("Checker.CheckRoleAssignments: %w", err)
	}
	rdClient, err := armauthorization.NewRoleDefinitionsClient(c.cred, c.clientOpts)
	if err != nil {
		return res, fmt.Errorf("Checker.CheckRoleAssignments: %w", err)
	}

	scope := "/subscriptions/" + subscriptionID
	filter := fmt.Sprintf("assignedTo('%s')", principalID)
	pager := raClient.NewListForScopePager(scope, &armauthorization.RoleAssignmentsClientListForScopeOptions{
		Filter: to.Ptr(filter),
	})

	roleNames := mapset.NewThreadUnsafeSet[string]()
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return res, fmt.Errorf("Checker.CheckRoleAssignments: %w", err)
		}
		for _, ra := range page.Value {
			if ra == nil || ra.Properties == nil || ra.Properties.RoleDefinitionID == nil {
				continue
			}
			rd, err := rdClient.GetByID(ctx, *ra.Properties.RoleDefinitionID, nil)
			if err != nil {
				return res, fmt.Errorf("Checker.CheckRoleAssignments: error reading role definition %s: %w", *ra.Properties.RoleDefinitionID, err)
			}
			if rd.Properties != nil && rd.Properties.RoleName != nil {
				roleNames.Add(*rd.Properties.RoleName)
			}
		}
	}

	names := roleNames.ToSlice()
	sort.Strings(names)
	if sufficientRoles(roleNames) {
		res.Status = StatusPassed
		res.Detail = fmt.Sprintf("roles held: %s", strings.Join(names, ", "))
		return res, nil
	}
	res.Status = StatusFailed
	res.Detail = fmt.Sprintf("roles held: %s; need Owner, or Contributor plus a role administration role", strings.Join(names, ", "))
	return res, nil
}

// sufficientRoles decides whether a role set can deploy a topology.
// Topologies create role assignments for their managed identities, so
// Contributor alone is not enough.
func sufficientRoles(roles mapset.Set[string]) bool {
	if roles.Contains(roleOwner) {
		return true
	}
	return roles.Contains(roleContributor) &&
		(roles.Contains(roleUserAccessAdmin) || roles.Contains(roleRBACAdmin))
}
