// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package auth

import (
	"os"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
)

func TestGetFirstSetEnvVar_NoVarsSet_ReturnsEmpty(t *testing.T) {
	_ = os.Unsetenv("TEST_AUTH_VAR_1")
	_ = os.Unsetenv("TEST_AUTH_VAR_2")

	if got := getFirstSetEnvVar("TEST_AUTH_VAR_1", "TEST_AUTH_VAR_2"); got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestGetFirstSetEnvVar_FirstSetWins(t *testing.T) {
	t.Setenv("TEST_AUTH_VAR_1", "one")
	t.Setenv("TEST_AUTH_VAR_2", "two")

	if got := getFirstSetEnvVar("TEST_AUTH_VAR_1", "TEST_AUTH_VAR_2"); got != "one" {
		t.Fatalf("got %q, want %q", got, "one")
	}
}

func TestGetFirstSetEnvVar_SkipsUnset(t *testing.T) {
	_ = os.Unsetenv("TEST_AUTH_VAR_1")
	t.Setenv("TEST_AUTH_VAR_2", "two")

	if got := getFirstSetEnvVar("TEST_AUTH_VAR_1", "TEST_AUTH_VAR_2"); got != "two" {
		t.Fatalf("got %q, want %q", got, "two")
	}
}

func TestGetCloudFromEnv(t *testing.T) {
	t.Setenv("ARM_ENVIRONMENT", "usgovernment")
	if got := GetCloudFromEnv(); got.ActiveDirectoryAuthorityHost != cloud.AzureGovernment.ActiveDirectoryAuthorityHost {
		t.Fatalf("expected government cloud, got %v", got.ActiveDirectoryAuthorityHost)
	}

	t.Setenv("ARM_ENVIRONMENT", "not-a-cloud")
	if got := GetCloudFromEnv(); got.ActiveDirectoryAuthorityHost != cloud.AzurePublic.ActiveDirectoryAuthorityHost {
		t.Fatalf("expected public cloud fallback, got %v", got.ActiveDirectoryAuthorityHost)
	}
}

func TestUseCLI(t *testing.T) {
	_ = os.Unsetenv("ARM_USE_CLI")
	if !useCLI() {
		t.Fatal("useCLI should default to true")
	}

	t.Setenv("ARM_USE_CLI", "false")
	if useCLI() {
		t.Fatal("ARM_USE_CLI=false should disable CLI auth")
	}

	t.Setenv("ARM_USE_CLI", "not-a-bool")
	if !useCLI() {
		t.Fatal("unparseable ARM_USE_CLI should fall back to true")
	}
}
