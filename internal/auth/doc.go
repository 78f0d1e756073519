// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

/*
Package auth provides a small helper for creating an Azure Entra (azcore.TokenCredential)
using well-known Azure environment variables and conventions.

It chains azidentity credential types with sensible defaults and environment-driven
configuration so calling code can obtain a credential suitable for use with the Azure SDKs
without duplicating environment parsing logic.

Usage

	import "github.com/Azure/foundrylib/internal/auth"

	cred, err := auth.NewToken()
	if err != nil {
	    // handle error
	}
	// use cred with Azure SDK clients that accept azcore.TokenCredential

# Environment variables

NewToken reads a variety of environment variables to determine the right credential flow
and configuration. Common variables include:

- ARM_ENVIRONMENT, AZURE_ENVIRONMENT
- ARM_CLIENT_ID, AZURE_CLIENT_ID
- ARM_CLIENT_SECRET, AZURE_CLIENT_SECRET
- ARM_TENANT_ID, AZURE_TENANT_ID
- ARM_USE_CLI

# Notes

  - The package maps environment names ("public", "usgovernment", "china") to the
    corresponding Azure cloud configuration.
  - The helper favors non-interactive credential flows appropriate for CI/CD and automated
    scenarios; it will enable use of the Azure CLI by default but respects ARM_USE_CLI for
    explicit control.
*/
package auth
