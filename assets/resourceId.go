// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package assets

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
)

// NameFromResourceID returns the name of the resource from a resource ID.
func NameFromResourceID(resID string) (string, error) {
	r, err := arm.ParseResourceID(resID)
	if err != nil {
		return "", fmt.Errorf("assets.NameFromResourceID: could not parse %s: %w", resID, err)
	}

	return r.Name, nil
}

// ResourceTypeFromResourceID returns the resource type of the resource from a resource ID.
func ResourceTypeFromResourceID(resID string) (string, error) {
	r, err := arm.ParseResourceID(resID)
	if err != nil {
		return "", fmt.Errorf("assets.ResourceTypeFromResourceID: could not parse %s: %w", resID, err)
	}

	return r.ResourceType.String(), nil
}

// SubscriptionFromResourceID returns the subscription ID of the resource from a resource ID.
func SubscriptionFromResourceID(resID string) (string, error) {
	r, err := arm.ParseResourceID(resID)
	if err != nil {
		return "", fmt.Errorf("assets.SubscriptionFromResourceID: could not parse %s: %w", resID, err)
	}

	return r.SubscriptionID, nil
}

// ValidateResourceType checks that the supplied resource ID parses and has
// the expected ARM resource type (case-insensitive, e.g.
// "Microsoft.Search/searchServices").
func ValidateResourceType(resID, expected string) error {
	r, err := arm.ParseResourceID(resID)
	if err != nil {
		return fmt.Errorf("assets.ValidateResourceType: could not parse %s: %w", resID, err)
	}
	actual := r.ResourceType.String()
	if !strings.EqualFold(actual, expected) {
		return NewErrResourceTypeMismatch(resID, expected, actual)
	}
	return nil
}
