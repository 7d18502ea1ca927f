package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"github.com/gitlite/gitlite/pkg/config"
	"github.com/gitlite/gitlite/pkg/kv"
	"github.com/gitlite/gitlite/pkg/refstore"
	"github.com/gitlite/gitlite/pkg/vcs"
)

var isTerminal = true
var noColorRequested = false

// commandName is the active sub-command, used for the classic
// "git-<sub>: error:" prefix on the error stream.
var commandName = "gitlite"

const DeathMessage = `{{.Prefix}}: error: {{.Error|red}}
`

//nolint:gochecknoinits
func init() {
	// disable colors if we're not attached to interactive TTY
	if !term.IsTerminal(int(os.Stdout.Fd())) || noColorRequested {
		DisableColors()
	}
}

func DisableColors() {
	text.DisableColors()
	isTerminal = false
}

func setCommandName(name string) {
	commandName = "git-" + name
}

func WriteTo(tpl string, data interface{}, w io.Writer) {
	templ := template.New("output")
	templ.Funcs(template.FuncMap{
		"red": func(arg interface{}) string {
			return text.FgHiRed.Sprint(arg)
		},
		"yellow": func(arg interface{}) string {
			return text.FgHiYellow.Sprint(arg)
		},
		"green": func(arg interface{}) string {
			return text.FgHiGreen.Sprint(arg)
		},
		"bold": func(arg interface{}) string {
			return text.Bold.Sprint(arg)
		},
	})
	t := template.Must(templ.Parse(tpl))
	if err := t.Execute(w, data); err != nil {
		panic(err)
	}
}

func Write(tpl string, data interface{}) {
	WriteTo(tpl, data, os.Stdout)
}

func Fmt(msg string, args ...interface{}) {
	fmt.Printf(msg, args...)
}

func Die(err string, code int) {
	WriteTo(DeathMessage, struct {
		Prefix string
		Error  string
	}{commandName, err}, os.Stderr)
	os.Exit(code)
}

func DieFmt(msg string, args ...interface{}) {
	Die(fmt.Sprintf(msg, args...), 1)
}

func DieErr(err error) {
	Die(err.Error(), 1)
}

// Must fails the command on a flag access error; those only happen on
// programming mistakes.
func Must[T any](v T, err error) T {
	if err != nil {
		DieErr(err)
	}
	return v
}

// repoPaths resolves the repository root (the working directory) and its
// state directory.
func repoPaths() (root, stateDir string) {
	root, err := os.Getwd()
	if err != nil {
		DieErr(err)
	}
	return root, filepath.Join(root, config.StateDirName)
}

// mustVCS opens the repository for a sub-command, dying on any failure.
// The returned closer releases the kv store.
func mustVCS(ctx context.Context) (*vcs.VCS, func()) {
	root, stateDir := repoPaths()
	if _, err := os.Stat(stateDir); err != nil {
		DieErr(vcs.ErrNotInitialized)
	}
	return openVCS(ctx, root, stateDir)
}

// initVCS opens the repository for git-init, creating the state directory.
func initVCS(ctx context.Context) (*vcs.VCS, func()) {
	root, stateDir := repoPaths()
	if err := os.MkdirAll(filepath.Join(stateDir, "kv"), 0o755); err != nil {
		DieErr(err)
	}
	return openVCS(ctx, root, stateDir)
}

func openVCS(ctx context.Context, root, stateDir string) (*vcs.VCS, func()) {
	store, err := kv.OpenWithMetrics(ctx, cfg.DatabaseParams(filepath.Join(stateDir, "kv")))
	if err != nil {
		DieFmt("open repository state: %s", err)
	}
	manager := refstore.NewManager(store)
	return vcs.New(manager, vcs.NewWorktree(root)), store.Close
}
