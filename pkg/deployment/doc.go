// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package deployment turns a catalog topology into an executable plan and
// runs it against the Azure Resource Manager deployment API.
//
// A Plan is built offline with NewPlan: parameter layers are merged by
// precedence, precondition guards are evaluated, and each stage is bound to
// its target scope and a deterministic deployment name. A Deployer then
// executes the plan (Apply), previews it (WhatIf, Validate) or re-reads the
// outputs of a previous run (StageOutputs).
//
// All provisioning semantics (ordering within a template, retries,
// idempotent convergence) remain with the ARM control plane; the executor
// only sequences whole-template deployments and carries outputs between
// stages.
package deployment
