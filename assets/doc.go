// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package assets provides the types used by the foundrylib library.
// A Topology describes one deployable variant of the AI Foundry
// infrastructure catalog: its target scope, ordered deployment stages,
// parameter specifications and the outputs it surfaces to callers.
//
// Use the constructor functions to create instances of the types
// defined in this package, such as NewTopology and NewStage.
package assets
