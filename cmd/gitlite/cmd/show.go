package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitlite/gitlite/pkg/vcs"
)

var showCmd = &cobra.Command{
	Use:   "show <commit>:<file>",
	Short: "Print a file from a commit, or from the index when the commit part is empty",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		commitPart, name, found := strings.Cut(args[0], ":")
		if !found {
			DieFmt("invalid object '%s'", args[0])
		}
		var commit *vcs.CommitID
		if commitPart != "" {
			id, err := strconv.ParseUint(commitPart, 10, 64)
			if err != nil {
				DieFmt("unknown commit '%s'", commitPart)
			}
			c := vcs.CommitID(id)
			commit = &c
		}

		v, closer := mustVCS(cmd.Context())
		defer closer()
		blob, err := v.Show(cmd.Context(), commit, name)
		if err != nil {
			DieErr(err)
		}
		_, _ = os.Stdout.Write(blob)
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(showCmd)
}
