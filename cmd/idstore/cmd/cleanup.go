package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.pilab.hu/idstore/internal/app"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove expired persisted grants and device codes once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			r := a.Cleanup.RemoveExpiredGrants(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "persisted grants removed: %d\n", r.GrantsRemoved)
			fmt.Fprintf(out, "device codes removed:     %d\n", r.DeviceCodesRemoved)

			return errors.Join(r.GrantsErr, r.DeviceCodesErr)
		})
	},
}
