package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Classify every file across working tree, index and head commit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		v, closer := mustVCS(cmd.Context())
		defer closer()
		entries, err := v.Status(cmd.Context())
		if err != nil {
			DieErr(err)
		}
		for _, entry := range entries {
			Fmt("%s - %s\n", entry.Name, entry.Status)
		}
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(statusCmd)
}
