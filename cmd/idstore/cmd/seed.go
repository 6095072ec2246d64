package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.pilab.hu/idstore/internal/app"
	"go.pilab.hu/idstore/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert clients and resources from a YAML file",
	Example: `  idstore seed -f clients.yaml
  idstore seed --config /etc/idstore/idstore.yaml -f seed.yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := seed.ParseFile(seedFile)
		if err != nil {
			return err
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			res, err := seed.NewSeeder(a.Stores.Clients, a.Stores.Resources, appLogger).Apply(cmd.Context(), f)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d clients, %d identity resources, %d api resources, %d api scopes\n",
				res.Clients, res.IdentityResources, res.APIResources, res.APIScopes)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "seed file (YAML)")
	_ = seedCmd.MarkFlagRequired("file")
}
