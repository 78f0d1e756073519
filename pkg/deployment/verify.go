// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrVerificationFailed is returned when a deployed topology fails
// post-deployment verification.
var ErrVerificationFailed = errors.New("post-deployment verification failed")

// VerifyOutputs runs post-deployment verification over the remapped outputs
// of a deployed topology. Presence of every declared topology output is
// already enforced by MapOutputs; here every output of ARM type Bool is
// treated as a validation flag published by the template (for example a
// capability host reporting it activated) and must report true.
func (p *Plan) VerifyOutputs(outputs map[string]OutputValue) error {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs error
	for _, name := range names {
		ov := outputs[name]
		if !strings.EqualFold(ov.Type, "bool") {
			continue
		}
		val, ok := ov.Value.(bool)
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("output `%s` is declared Bool but carries a %T value", name, ov.Value))
			continue
		}
		if !val {
			errs = multierror.Append(errs, fmt.Errorf("validation output `%s` reports false", name))
		}
	}
	if errs != nil {
		return fmt.Errorf("%w: %s", ErrVerificationFailed, errs.Error())
	}
	return nil
}
