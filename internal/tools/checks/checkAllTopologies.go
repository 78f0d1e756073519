// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package checks

import (
	"fmt"

	"github.com/Azure/foundrylib"
	"github.com/Azure/foundrylib/internal/tools/checker"
	"github.com/Azure/foundrylib/internal/tools/errcheck"
	"github.com/Azure/foundrylib/pkg/deployment"
)

// CheckAllTopologies validates every topology in the library: internal
// consistency plus stage parameter binding references.
func CheckAllTopologies(input any) checker.ValidatorCheck {
	return checker.NewValidatorCheck(
		"All topologies are valid",
		func() error {
			return checkAllTopologies(input)
		},
	)
}

func checkAllTopologies(input any) error {
	fl, ok := input.(*foundrylib.FoundryLib)
	if !ok {
		return fmt.Errorf("checkAllTopologies: %w: expected *foundrylib.FoundryLib, got %T", ErrIncorrectType, input)
	}
	cerr := errcheck.NewCheckerError()
	for _, name := range fl.TopologyNames() {
		topo := fl.Topology(name)
		if topo == nil {
			cerr.Add(fmt.Errorf("checkAllTopologies: topology `%s` not found", name))
			continue
		}
		if err := topo.Validate(); err != nil {
			cerr.Add(fmt.Errorf("checkAllTopologies: topology `%s`: %w", name, err))
			continue
		}
		if err := deployment.ValidateStageReferences(topo); err != nil {
			cerr.Add(fmt.Errorf("checkAllTopologies: topology `%s`: %w", name, err))
		}
	}
	if cerr.HasErrors() {
		return cerr
	}
	return nil
}
