// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package doc

import (
	"bytes"
	"context"
	"testing"

	"github.com/Azure/foundrylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoundryLibReadmeMd(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	err := FoundryLibReadmeMd(ctx, &buf, foundrylib.EmbeddedLibrary())
	require.NoError(t, err)
	out := buf.String()
	t.Log(out)
	assert.Contains(t, out, "## Topologies")
	assert.Contains(t, out, "standard-private")
	assert.Contains(t, out, "FOUNDRY_NAME")
}
