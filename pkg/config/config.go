package config

import (
	"github.com/gitlite/gitlite/pkg/kv/kvparams"
)

// StateDirName is the repository state directory at the worktree root.
const StateDirName = ".gitlite"

// Config is the user-tunable configuration, read from ~/.gitlite.yaml and
// GITLITE_* environment variables. Everything has a working default; a
// config file is never required.
type Config struct {
	Logging struct {
		Level         string   `mapstructure:"level"`
		Format        string   `mapstructure:"format"`
		Outputs       []string `mapstructure:"outputs"`
		FileMaxSizeMB int      `mapstructure:"file_max_size_mb"`
		FilesKeep     int      `mapstructure:"files_keep"`
	} `mapstructure:"logging"`
	Database struct {
		Type   string `mapstructure:"type"`
		Badger struct {
			PrefetchSize  int  `mapstructure:"prefetch_size"`
			SyncWrites    bool `mapstructure:"sync_writes"`
			EnableLogging bool `mapstructure:"enable_logging"`
		} `mapstructure:"badger"`
	} `mapstructure:"database"`
}

// DatabaseParams resolves the kv driver parameters for a repository whose
// state lives under stateDir.
func (c *Config) DatabaseParams(stateDir string) kvparams.Config {
	return kvparams.Config{
		Type: c.Database.Type,
		Badger: &kvparams.Badger{
			Path:          stateDir,
			PrefetchSize:  c.Database.Badger.PrefetchSize,
			SyncWrites:    c.Database.Badger.SyncWrites,
			EnableLogging: c.Database.Badger.EnableLogging,
		},
		Mem: &kvparams.Mem{},
	}
}
