// Copyright (c) Microsoft Corporation 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import "github.com/Azure/foundrylib/cmd/foundrytool/command"

func main() {
	command.Execute()
}
