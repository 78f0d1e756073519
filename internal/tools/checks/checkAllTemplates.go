// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package checks

import (
	"encoding/json"
	"fmt"

	"github.com/Azure/foundrylib"
	"github.com/Azure/foundrylib/internal/tools/checker"
	"github.com/Azure/foundrylib/internal/tools/errcheck"
)

// armTemplateDocument is the minimal shape every compiled ARM template must have.
type armTemplateDocument struct {
	Schema    *string `json:"$schema"`
	Resources any     `json:"resources"`
}

// CheckAllTemplates verifies that every stage's template file parses as an
// ARM template document with a $schema and a resources collection.
func CheckAllTemplates(input any) checker.ValidatorCheck {
	return checker.NewValidatorCheck(
		"All stage templates are valid ARM documents",
		func() error {
			return checkAllTemplates(input)
		},
	)
}

func checkAllTemplates(input any) error {
	fl, ok := input.(*foundrylib.FoundryLib)
	if !ok {
		return fmt.Errorf("checkAllTemplates: %w: expected *foundrylib.FoundryLib, got %T", ErrIncorrectType, input)
	}
	cerr := errcheck.NewCheckerError()
	for _, name := range fl.TopologyNames() {
		topo := fl.Topology(name)
		for _, stage := range topo.Stages {
			data, err := fl.Template(name, stage.Name)
			if err != nil {
				cerr.Add(fmt.Errorf("checkAllTemplates: topology `%s` stage `%s`: %w", name, stage.Name, err))
				continue
			}
			doc := armTemplateDocument{}
			if err := json.Unmarshal(data, &doc); err != nil {
				cerr.Add(fmt.Errorf("checkAllTemplates: topology `%s` stage `%s`: template `%s` is not valid JSON: %w", name, stage.Name, stage.TemplateFile, err))
				continue
			}
			if doc.Schema == nil {
				cerr.Add(fmt.Errorf("checkAllTemplates: topology `%s` stage `%s`: template `%s` has no $schema", name, stage.Name, stage.TemplateFile))
			}
			if doc.Resources == nil {
				cerr.Add(fmt.Errorf("checkAllTemplates: topology `%s` stage `%s`: template `%s` has no resources", name, stage.Name, stage.TemplateFile))
			}
		}
	}
	if cerr.HasErrors() {
		return cerr
	}
	return nil
}
