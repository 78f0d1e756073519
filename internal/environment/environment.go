// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package environment contains the types and methods for fetching configuration from the local environment.
package environment

import "os"

const (
	fetchDefaultBaseDir     = ".foundrylib"                               // fetchDefaultBaseDir is the default base directory for fetching libraries.
	fetchDefaultBaseDirEnv  = "FOUNDRYLIB_DIR"                            // fetchDefaultBaseDirEnv is the environment variable to override the default base directory.
	foundryLibraryGitUrl    = "github.com/Azure/foundry-topology-catalog" // foundryLibraryGitUrl is the URL of the Foundry topology catalog.
	foundryLibraryGitUrlEnv = "FOUNDRYLIB_LIBRARY_GIT_URL"                // foundryLibraryGitUrlEnv is the environment variable to override the default git URL.
)

// FoundryLibDir contents of the `FOUNDRYLIB_DIR` environment variable, or the default which is `.foundrylib`.
func FoundryLibDir() string {
	dir := fetchDefaultBaseDir
	if d := os.Getenv(fetchDefaultBaseDirEnv); d != "" {
		dir = d
	}
	return dir
}

// FoundryLibraryGitUrl contents of the `FOUNDRYLIB_LIBRARY_GIT_URL` environment variable, or the default which is `github.com/Azure/foundry-topology-catalog`.
func FoundryLibraryGitUrl() string {
	url := foundryLibraryGitUrl
	if u := os.Getenv(foundryLibraryGitUrlEnv); u != "" {
		url = u
	}
	return url
}
