// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package deploy implements the plan, deploy and outputs commands. They
// share the same flag surface: a topology name, parameter sources and the
// target scope.
package deploy

import (
	"fmt"
	"os"
	"strings"

	"github.com/Azure/foundrylib"
	"github.com/Azure/foundrylib/internal/auth"
	"github.com/Azure/foundrylib/pkg/deployment"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DeployCmd represents the deploy command.
var DeployCmd = cobra.Command{
	Use:   "deploy [flags] topology",
	Short: "Deploy a topology to Azure.",
	Long: `Deploy a topology to Azure.

Stages run in dependency order, concurrently where the topology allows it.
Deployment names are deterministic, so re-running updates the same
deployments and the outputs command can find them later.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plan, err := buildPlan(cmd, args[0])
		if err != nil {
			cmd.PrintErrf("%s deploy error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		deployer, err := newDeployer(cmd)
		if err != nil {
			cmd.PrintErrf("%s deploy error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		outputs, err := deployer.Apply(cmd.Context(), plan)
		if err != nil {
			cmd.PrintErrf("%s deploy error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
		if err := printOutputs(cmd, outputs); err != nil {
			cmd.PrintErrf("%s deploy error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{&DeployCmd, &PlanCmd, &OutputsCmd, &PostDeployCmd} {
		c.Flags().String("library", "", "Path to a local topology library. The embedded library is used when not set.")
		c.Flags().StringSlice("parameters", nil, "Parameter file (ARM parameters JSON, flat JSON or YAML). Repeatable, later files win.")
		c.Flags().StringSlice("set", nil, "Override a parameter as name=value. Repeatable, wins over all other sources.")
		c.Flags().String("subscription", "", "Target subscription id.")
		c.Flags().String("resource-group", "", "Target resource group for resource group scoped stages.")
		c.Flags().String("management-group", "", "Target management group for management group scoped stages.")
		c.Flags().String("location", "", "Target location.")
		c.Flags().String("name-prefix", "", "Prefix for the generated deployment names.")
		c.Flags().Bool("verbose", false, "Log stage progress.")
	}
	for _, c := range []*cobra.Command{&DeployCmd, &OutputsCmd} {
		c.Flags().StringP("output", "o", "json", "Output format for the deployment outputs, json or text.")
	}
	DeployCmd.Flags().Int("parallelism", 0, "Maximum concurrent stage deployments within a wave.")
}

// buildPlan loads the library and assembles a plan from the command flags.
func buildPlan(cmd *cobra.Command, topologyName string) (*deployment.Plan, error) {
	flags := cmd.Flags()
	libPath, _ := flags.GetString("library")
	paramFiles, _ := flags.GetStringSlice("parameters")
	sets, _ := flags.GetStringSlice("set")

	fl := foundrylib.NewFoundryLib(nil)
	lfs := foundrylib.EmbeddedLibrary()
	if libPath != "" {
		lfs = os.DirFS(libPath)
	}
	if err := fl.Init(cmd.Context(), lfs); err != nil {
		return nil, err
	}

	topo := fl.Topology(topologyName)
	if topo == nil {
		return nil, fmt.Errorf("topology `%s` not found, available: %s", topologyName, strings.Join(fl.TopologyNames(), ", "))
	}

	files := make([]map[string]any, 0, len(paramFiles))
	for _, path := range paramFiles {
		layer, err := deployment.LoadParameterFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, layer)
	}

	overrides, err := parseSetFlags(sets)
	if err != nil {
		return nil, err
	}

	subscription, _ := flags.GetString("subscription")
	resourceGroup, _ := flags.GetString("resource-group")
	managementGroup, _ := flags.GetString("management-group")
	location, _ := flags.GetString("location")
	namePrefix, _ := flags.GetString("name-prefix")

	return deployment.NewPlan(&deployment.PlanRequest{
		Topology:          topo,
		Templates:         fl,
		LibraryDefaults:   fl.DefaultParameterValues(topologyName),
		Files:             files,
		EnvLookup:         os.LookupEnv,
		Overrides:         overrides,
		Location:          location,
		SubscriptionID:    subscription,
		ResourceGroup:     resourceGroup,
		ManagementGroupID: managementGroup,
		NamePrefix:        namePrefix,
	})
}

// newDeployer builds a Deployer from the environment's credentials.
func newDeployer(cmd *cobra.Command) (*deployment.Deployer, error) {
	cred, err := auth.NewToken()
	if err != nil {
		return nil, err
	}
	opts := &deployment.DeployerOptions{}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts.Logger = log
	}
	if cmd.Flags().Lookup("parallelism") != nil {
		opts.Parallelism, _ = cmd.Flags().GetInt("parallelism")
	}
	return deployment.NewDeployer(cred, opts), nil
}

// printOutputs writes the flat outputs map in the format selected by the
// output flag, JSON unless text is asked for.
func printOutputs(cmd *cobra.Command, outputs map[string]deployment.OutputValue) error {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "text":
		cmd.Print(deployment.FormatOutputs(outputs))
		return nil
	case "json":
		s, err := deployment.FormatOutputsJSON(outputs)
		if err != nil {
			return err
		}
		cmd.Print(s)
		return nil
	}
	return fmt.Errorf("unknown output format `%s`, expected json or text", format)
}

// parseSetFlags converts repeated name=value flags to a parameter layer.
func parseSetFlags(sets []string) (map[string]any, error) {
	res := make(map[string]any, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set value `%s`, expected name=value", s)
		}
		res[name] = value
	}
	return res, nil
}
