// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package checker_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Azure/foundrylib/internal/tools/checker"
)

func TestValidator_Validate(t *testing.T) {
	pass := checker.NewValidatorCheck("always passes", func() error { return nil })
	fail := checker.NewValidatorCheck("always fails", func() error { return errors.New("boom") })

	if err := checker.NewValidatorQuiet(pass).Validate(); err != nil {
		t.Errorf("Expected no error, but got %v", err)
	}

	if err := checker.NewValidatorQuiet(pass, fail).Validate(); err == nil {
		t.Errorf("Expected an error, but got nil")
	}

	v := checker.NewValidatorQuiet(pass).AddChecks(fail, fail)
	if err := v.Validate(); err == nil {
		t.Errorf("Expected an error, but got nil")
	}
}

func TestValidator_WithOutput(t *testing.T) {
	pass := checker.NewValidatorCheck("always passes", func() error { return nil })

	buf := new(bytes.Buffer)
	if err := checker.NewValidator(pass).WithOutput(buf).Validate(); err != nil {
		t.Errorf("Expected no error, but got %v", err)
	}
	if !strings.Contains(buf.String(), "==> Starting check: always passes") {
		t.Errorf("Expected progress message, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "==> Finished check: always passes") {
		t.Errorf("Expected progress message, got %q", buf.String())
	}
}
