// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package foundrylib

import (
	"testing"

	"github.com/Azure/foundrylib/internal/processor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	t.Parallel()

	in := &processor.LibMetadata{
		Name:        "baseline",
		DisplayName: "Baseline topologies",
		Description: "desc",
		Path:        "platform/baseline",
		Dependencies: []processor.LibMetadataDependency{
			{
				Path: "platform/base",
				Ref:  "2025.02.0",
			},
			{
				CustomURL: "git::https://example.com/lib.git",
			},
		},
	}

	m := NewMetadata(in)
	assert.Equal(t, "baseline", m.Name())
	assert.Equal(t, "Baseline topologies", m.DisplayName())
	assert.Equal(t, "desc", m.Description())
	assert.Equal(t, "platform/baseline", m.Path())
	require.Len(t, m.Dependencies(), 2)
}

func TestNewMetadataDependencyFromProcessor(t *testing.T) {
	t.Parallel()

	dep := NewMetadataDependencyFromProcessor(processor.LibMetadataDependency{
		Path: "platform/base",
		Ref:  "2025.02.0",
	})
	flr, ok := dep.(*FoundryLibraryReference)
	require.True(t, ok)
	assert.Equal(t, "platform/base", flr.Path())
	assert.Equal(t, "2025.02.0", flr.Tag())
	assert.Equal(t, "platform/base@2025.02.0", flr.String())

	dep = NewMetadataDependencyFromProcessor(processor.LibMetadataDependency{
		CustomURL: "git::https://example.com/lib.git",
	})
	clr, ok := dep.(*CustomLibraryReference)
	require.True(t, ok)
	assert.Equal(t, "git::https://example.com/lib.git", clr.String())
}
