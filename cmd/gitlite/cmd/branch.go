package cmd

import (
	"github.com/spf13/cobra"
)

var branchCmd = &cobra.Command{
	Use:   "branch [-d] [<name>]",
	Short: "List, create or delete branches",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deleteRequested := Must(cmd.Flags().GetBool("delete"))

		v, closer := mustVCS(cmd.Context())
		defer closer()
		switch {
		case deleteRequested:
			if len(args) != 1 {
				DieFmt("branch name required")
			}
			if err := v.DeleteBranch(cmd.Context(), args[0]); err != nil {
				DieErr(err)
			}
			Fmt("Deleted branch '%s'\n", args[0])
		case len(args) == 1:
			if err := v.CreateBranch(cmd.Context(), args[0]); err != nil {
				DieErr(err)
			}
		default:
			branches, err := v.Branches(cmd.Context())
			if err != nil {
				DieErr(err)
			}
			for _, name := range branches {
				Fmt("%s\n", name)
			}
		}
	},
}

//nolint:gochecknoinits
func init() {
	branchCmd.Flags().BoolP("delete", "d", false, "delete the named branch")

	rootCmd.AddCommand(branchCmd)
}
