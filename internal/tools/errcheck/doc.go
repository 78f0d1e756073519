// Copyright (c) Microsoft Corporation 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package errcheck collects multiple check failures so library validation
// can report everything wrong with a catalog in one pass.
package errcheck
