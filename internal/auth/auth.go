// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package auth

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// environmentToCloud maps environment names to their corresponding cloud configurations.
var environmentToCloud = map[string]cloud.Configuration{
	"public":       cloud.AzurePublic,
	"usgovernment": cloud.AzureGovernment,
	"china":        cloud.AzureChina,
}

// GetCloudFromEnv returns the cloud configuration selected by the
// `ARM_ENVIRONMENT` or `AZURE_ENVIRONMENT` environment variables,
// defaulting to the public cloud.
func GetCloudFromEnv() cloud.Configuration {
	cld := cloud.AzurePublic
	if env := getFirstSetEnvVar("ARM_ENVIRONMENT", "AZURE_ENVIRONMENT"); env != "" {
		if cfg, ok := environmentToCloud[env]; ok {
			cld = cfg
		}
	}
	return cld
}

// NewToken creates a new Entra token credential.
// It uses well-known ARM_*/AZURE_* environment variables to configure the
// token acquisition, building a chain of client secret, CLI and default
// credentials as the environment allows.
func NewToken() (azcore.TokenCredential, error) {
	cld := GetCloudFromEnv()
	clientOpts := azcore.ClientOptions{Cloud: cld}

	creds := make([]azcore.TokenCredential, 0, 3)

	tenantID := getFirstSetEnvVar("ARM_TENANT_ID", "AZURE_TENANT_ID")
	clientID := getFirstSetEnvVar("ARM_CLIENT_ID", "AZURE_CLIENT_ID")
	clientSecret := getFirstSetEnvVar("ARM_CLIENT_SECRET", "AZURE_CLIENT_SECRET")

	if tenantID != "" && clientID != "" && clientSecret != "" {
		cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, &azidentity.ClientSecretCredentialOptions{
			ClientOptions: clientOpts,
		})
		if err != nil {
			return nil, fmt.Errorf("auth.NewToken: could not create client secret credential: %w", err)
		}
		creds = append(creds, cred)
	}

	if useCLI() {
		cred, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
			TenantID: tenantID,
		})
		if err != nil {
			return nil, fmt.Errorf("auth.NewToken: could not create Azure CLI credential: %w", err)
		}
		creds = append(creds, cred)
	}

	cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		ClientOptions: clientOpts,
		TenantID:      tenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("auth.NewToken: could not create default credential: %w", err)
	}
	creds = append(creds, cred)

	chain, err := azidentity.NewChainedTokenCredential(creds, nil)
	if err != nil {
		return nil, fmt.Errorf("auth.NewToken: could not create chained credential: %w", err)
	}
	return chain, nil
}

// useCLI reports whether Azure CLI authentication is enabled.
// It defaults to true and can be disabled with `ARM_USE_CLI=false`.
func useCLI() bool {
	if cli := getFirstSetEnvVar("ARM_USE_CLI"); cli != "" {
		b, err := strconv.ParseBool(cli)
		if err == nil {
			return b
		}
	}
	return true
}

func getFirstSetEnvVar(vars ...string) string {
	for _, v := range vars {
		if val := os.Getenv(v); val != "" {
			return val
		}
	}

	return ""
}
