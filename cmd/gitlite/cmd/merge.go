package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitlite/gitlite/pkg/vcs"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <branch|commit> -m <message>",
	Short: "Merge a branch or commit into the current branch",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		message := Must(cmd.Flags().GetString("message"))

		v, closer := mustVCS(cmd.Context())
		defer closer()
		result, err := v.Merge(cmd.Context(), args[0], message)
		if err != nil {
			DieErr(err)
		}
		switch result.Kind {
		case vcs.MergeAlreadyUpToDate:
			Fmt("Already up to date\n")
		case vcs.MergeFastForward:
			Fmt("Fast-forward: no commit created\n")
		case vcs.MergeCommitted:
			Fmt("Committed as commit %d\n", result.ID)
		}
	},
}

//nolint:gochecknoinits
func init() {
	mergeCmd.Flags().StringP("message", "m", "", "merge commit message")
	_ = mergeCmd.MarkFlagRequired("message")

	rootCmd.AddCommand(mergeCmd)
}
