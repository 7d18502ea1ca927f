package cmd

import (
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List the commits of the current branch, tip first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		v, closer := mustVCS(cmd.Context())
		defer closer()
		commits, err := v.Log(cmd.Context())
		if err != nil {
			DieErr(err)
		}
		for _, commit := range commits {
			Fmt("%d %s\n", commit.ID, commit.Message)
		}
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(logCmd)
}
