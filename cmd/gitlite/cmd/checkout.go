package cmd

import (
	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <branch>",
	Short: "Switch to a branch, preserving uncommitted local changes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		v, closer := mustVCS(cmd.Context())
		defer closer()
		result, err := v.Checkout(cmd.Context(), args[0])
		if err != nil {
			DieErr(err)
		}
		if result.AlreadyOn {
			Fmt("Already on '%s'\n", result.Branch)
			return
		}
		Fmt("Switched to branch '%s'\n", result.Branch)
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(checkoutCmd)
}
