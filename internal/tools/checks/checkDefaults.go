// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package checks

import (
	"fmt"

	"github.com/Azure/foundrylib"
	"github.com/Azure/foundrylib/internal/tools/checker"
	"github.com/Azure/foundrylib/internal/tools/errcheck"
)

// CheckDefaults verifies that every default value assignment references a
// topology in the library and a parameter that topology declares.
func CheckDefaults(input any) checker.ValidatorCheck {
	return checker.NewValidatorCheck(
		"All default value assignments resolve",
		func() error {
			return checkDefaults(input)
		},
	)
}

func checkDefaults(input any) error {
	fl, ok := input.(*foundrylib.FoundryLib)
	if !ok {
		return fmt.Errorf("checkDefaults: %w: expected *foundrylib.FoundryLib, got %T", ErrIncorrectType, input)
	}
	cerr := errcheck.NewCheckerError()
	for _, name := range fl.DefaultValueNames() {
		dv := fl.DefaultValue(name)
		for topoName, paramNames := range dv.Assignments {
			topo := fl.Topology(topoName)
			if topo == nil {
				cerr.Add(fmt.Errorf("checkDefaults: default `%s` is assigned to topology `%s`, which is not in the library", name, topoName))
				continue
			}
			for _, p := range paramNames {
				if _, ok := topo.Parameters[p]; !ok {
					cerr.Add(fmt.Errorf("checkDefaults: default `%s` is assigned to parameter `%s` of topology `%s`, which it does not declare", name, p, topoName))
				}
			}
		}
	}
	if cerr.HasErrors() {
		return cerr
	}
	return nil
}
