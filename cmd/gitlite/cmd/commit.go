package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitlite/gitlite/pkg/vcs"
)

var commitCmd = &cobra.Command{
	Use:   "commit [-a] -m <message>",
	Short: "Record the index as a new commit on the current branch",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		message := Must(cmd.Flags().GetString("message"))
		all := Must(cmd.Flags().GetBool("all"))

		v, closer := mustVCS(cmd.Context())
		defer closer()
		result, err := v.Commit(cmd.Context(), vcs.CommitParams{Message: message, All: all})
		if err != nil {
			DieErr(err)
		}
		if !result.Created {
			Fmt("nothing to commit\n")
			return
		}
		Fmt("Committed as commit %d\n", result.ID)
	},
}

//nolint:gochecknoinits
func init() {
	commitCmd.Flags().StringP("message", "m", "", "commit message")
	commitCmd.Flags().BoolP("all", "a", false, "refresh every staged file from the working tree first")
	_ = commitCmd.MarkFlagRequired("message")

	rootCmd.AddCommand(commitCmd)
}
