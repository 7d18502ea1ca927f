package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gitlite/gitlite/cmd/gitlite/cmd"
)

func main() {
	// when invoked through a link named git-<sub> (e.g. git-init), the
	// basename selects the sub-command
	baseName := filepath.Base(os.Args[0])
	if strings.HasPrefix(baseName, "git-") {
		subName := strings.TrimPrefix(baseName, "git-")
		// trim any ".exe" or similar extension
		if lastDot := strings.LastIndex(subName, "."); lastDot != -1 {
			subName = subName[:lastDot]
		}
		cmd.ExecuteSub(subName, os.Args[1:])
		return
	}
	cmd.Execute()
}
