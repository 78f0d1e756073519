// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package gateway

import (
	"os"

	"github.com/Azure/foundrylib/internal/auth"
	"github.com/Azure/foundrylib/pkg/gateway"
	"github.com/spf13/cobra"
)

// GatewayCmd represents the gateway command.
var GatewayCmd = cobra.Command{
	Use:   "gateway [flags]",
	Short: "Manage AI gateway subscriptions and usage.",
	Long:  `Manage the API Management subscriptions fronting a deployed AI gateway, and report token usage.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.PrintErrf("%s gateway command: missing required child command\n", cmd.ErrPrefix())
		cmd.Usage() // nolint: errcheck
	},
}

func init() {
	GatewayCmd.AddCommand(&subscriptionCmd)
	GatewayCmd.AddCommand(&usageCmd)
	GatewayCmd.PersistentFlags().String("subscription", "", "Azure subscription id hosting the API Management service.")
	GatewayCmd.PersistentFlags().String("resource-group", "", "Resource group of the API Management service.")
	GatewayCmd.PersistentFlags().String("service-name", "", "Name of the API Management service.")
}

// newGatewayClient builds a gateway client from the persistent flags.
func newGatewayClient(cmd *cobra.Command) (*gateway.Client, error) {
	flags := cmd.Flags()
	subscription, _ := flags.GetString("subscription")
	resourceGroup, _ := flags.GetString("resource-group")
	serviceName, _ := flags.GetString("service-name")

	cred, err := auth.NewToken()
	if err != nil {
		return nil, err
	}
	return gateway.NewClient(subscription, resourceGroup, serviceName, cred, nil)
}

func exitErr(cmd *cobra.Command, context string, err error) {
	cmd.PrintErrf("%s %s error: %v\n", cmd.ErrPrefix(), context, err)
	os.Exit(1)
}
