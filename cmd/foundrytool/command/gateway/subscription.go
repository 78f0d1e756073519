// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package gateway

import (
	"github.com/Azure/foundrylib/pkg/gateway"
	"github.com/spf13/cobra"
)

var subscriptionCmd = cobra.Command{
	Use:   "subscription [flags]",
	Short: "Manage gateway subscriptions.",
	Long:  `Manage the API Management subscriptions that grant teams access to the gateway.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.PrintErrf("%s subscription command: missing required child command\n", cmd.ErrPrefix())
		cmd.Usage() // nolint: errcheck
	},
}

var subscriptionListCmd = cobra.Command{
	Use:   "list [flags]",
	Short: "List gateway subscriptions.",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newGatewayClient(cmd)
		if err != nil {
			exitErr(cmd, "subscription list", err)
		}
		search, _ := cmd.Flags().GetString("search")
		state, _ := cmd.Flags().GetString("state")
		subs, err := client.List(cmd.Context(), gateway.ListOptions{
			Search: search,
			State:  gateway.SubscriptionState(state),
		})
		if err != nil {
			exitErr(cmd, "subscription list", err)
		}
		for _, sub := range subs {
			cmd.Printf("%s\t%s\t%s\t%s\n", sub.ID, sub.State, sub.Scope, sub.DisplayName)
		}
	},
}

var subscriptionCreateCmd = cobra.Command{
	Use:   "create [flags] display-name",
	Short: "Create a gateway subscription.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newGatewayClient(cmd)
		if err != nil {
			exitErr(cmd, "subscription create", err)
		}
		scope, _ := cmd.Flags().GetString("scope")
		owner, _ := cmd.Flags().GetString("owner-id")
		sub, err := client.Create(cmd.Context(), gateway.CreateRequest{
			DisplayName: args[0],
			Scope:       scope,
			OwnerID:     owner,
		})
		if err != nil {
			exitErr(cmd, "subscription create", err)
		}
		cmd.Printf("%s\t%s\n", sub.ID, sub.State)
	},
}

var subscriptionShowCmd = cobra.Command{
	Use:   "show [flags] sid",
	Short: "Show a gateway subscription.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newGatewayClient(cmd)
		if err != nil {
			exitErr(cmd, "subscription show", err)
		}
		sub, err := client.Get(cmd.Context(), args[0])
		if err != nil {
			exitErr(cmd, "subscription show", err)
		}
		cmd.Printf("id: %s\ndisplay name: %s\nscope: %s\nstate: %s\n", sub.ID, sub.DisplayName, sub.Scope, sub.State)
		if sub.CreatedDate != nil {
			cmd.Printf("created: %s\n", sub.CreatedDate.Format("2006-01-02"))
		}
	},
}

var subscriptionSuspendCmd = cobra.Command{
	Use:   "suspend [flags] sid",
	Short: "Suspend a gateway subscription, cutting off its keys.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newGatewayClient(cmd)
		if err != nil {
			exitErr(cmd, "subscription suspend", err)
		}
		sub, err := client.Suspend(cmd.Context(), args[0])
		if err != nil {
			exitErr(cmd, "subscription suspend", err)
		}
		cmd.Printf("%s\t%s\n", sub.ID, sub.State)
	},
}

var subscriptionActivateCmd = cobra.Command{
	Use:   "activate [flags] sid",
	Short: "Activate a suspended gateway subscription.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newGatewayClient(cmd)
		if err != nil {
			exitErr(cmd, "subscription activate", err)
		}
		sub, err := client.Activate(cmd.Context(), args[0])
		if err != nil {
			exitErr(cmd, "subscription activate", err)
		}
		cmd.Printf("%s\t%s\n", sub.ID, sub.State)
	},
}

var subscriptionKeysCmd = cobra.Command{
	Use:   "keys [flags] sid",
	Short: "Show or regenerate the keys of a gateway subscription.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newGatewayClient(cmd)
		if err != nil {
			exitErr(cmd, "subscription keys", err)
		}
		regenerate, _ := cmd.Flags().GetBool("regenerate")
		var keys *gateway.Keys
		if regenerate {
			keys, err = client.RegenerateKeys(cmd.Context(), args[0])
		} else {
			keys, err = client.Keys(cmd.Context(), args[0])
		}
		if err != nil {
			exitErr(cmd, "subscription keys", err)
		}
		cmd.Printf("primary: %s\nsecondary: %s\n", keys.Primary, keys.Secondary)
	},
}

var subscriptionDeleteCmd = cobra.Command{
	Use:   "delete [flags] sid",
	Short: "Delete a gateway subscription.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newGatewayClient(cmd)
		if err != nil {
			exitErr(cmd, "subscription delete", err)
		}
		if err := client.Delete(cmd.Context(), args[0]); err != nil {
			exitErr(cmd, "subscription delete", err)
		}
	},
}

func init() {
	subscriptionCmd.AddCommand(&subscriptionListCmd)
	subscriptionCmd.AddCommand(&subscriptionCreateCmd)
	subscriptionCmd.AddCommand(&subscriptionShowCmd)
	subscriptionCmd.AddCommand(&subscriptionSuspendCmd)
	subscriptionCmd.AddCommand(&subscriptionActivateCmd)
	subscriptionCmd.AddCommand(&subscriptionKeysCmd)
	subscriptionCmd.AddCommand(&subscriptionDeleteCmd)

	subscriptionListCmd.Flags().String("search", "", "Filter by display name.")
	subscriptionListCmd.Flags().String("state", "", "Filter by state (active, suspended, cancelled, expired, submitted, rejected).")
	subscriptionCreateCmd.Flags().String("scope", "/apis", "APIM scope the subscription grants access to.")
	subscriptionCreateCmd.Flags().String("owner-id", "", "Owner of the subscription.")
	subscriptionKeysCmd.Flags().Bool("regenerate", false, "Regenerate both keys before showing them.")
}
