// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package checks_test

import (
	"context"
	"testing"

	"github.com/Azure/foundrylib"
	"github.com/Azure/foundrylib/internal/tools/checker"
	"github.com/Azure/foundrylib/internal/tools/checks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksPassOnEmbeddedLibrary(t *testing.T) {
	fl := foundrylib.NewFoundryLib(nil)
	require.NoError(t, fl.Init(context.Background(), foundrylib.EmbeddedLibrary()))

	v := checker.NewValidatorQuiet(
		checks.CheckAllTopologies(fl),
		checks.CheckAllTemplates(fl),
		checks.CheckDefaults(fl),
	)
	assert.NoError(t, v.Validate())
}

func TestChecksRejectWrongInputType(t *testing.T) {
	v := checker.NewValidatorQuiet(
		checks.CheckAllTopologies("not a library"),
		checks.CheckAllTemplates(42),
		checks.CheckDefaults(nil),
	)
	err := v.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "incorrect type supplied to checker")
}
