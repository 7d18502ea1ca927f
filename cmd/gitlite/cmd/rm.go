package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitlite/gitlite/pkg/vcs"
)

var rmCmd = &cobra.Command{
	Use:   "rm [--force] [--cached] <file>...",
	Short: "Remove files from the index, and unless --cached from the working tree",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		params := vcs.RemoveParams{
			Cached: Must(cmd.Flags().GetBool("cached")),
			Force:  Must(cmd.Flags().GetBool("force")),
		}
		v, closer := mustVCS(cmd.Context())
		defer closer()
		if err := v.Remove(cmd.Context(), args, params); err != nil {
			DieErr(err)
		}
	},
}

//nolint:gochecknoinits
func init() {
	rmCmd.Flags().Bool("cached", false, "remove from the index only")
	rmCmd.Flags().Bool("force", false, "skip the safety checks")

	rootCmd.AddCommand(rmCmd)
}
