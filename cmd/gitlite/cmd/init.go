package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitlite/gitlite/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty repository in the current directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		v, closer := initVCS(cmd.Context())
		defer closer()
		if err := v.Init(cmd.Context()); err != nil {
			DieErr(err)
		}
		Fmt("Initialized empty repository in %s\n", config.StateDirName)
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(initCmd)
}
