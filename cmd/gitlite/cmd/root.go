package cmd

import (
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gitlite/gitlite/pkg/config"
	"github.com/gitlite/gitlite/pkg/logging"

	_ "github.com/gitlite/gitlite/pkg/kv/badger"
	_ "github.com/gitlite/gitlite/pkg/kv/mem"
)

var (
	cfgFile string
	cfg     config.Config

	// logLevel logging level (default is off: command output must stay clean)
	logLevel string
	// logFormat logging format
	logFormat string
	// logOutputs logging outputs
	logOutputs []string
)

// rootCmd represents the base command when called without any sub-commands
var rootCmd = &cobra.Command{
	Use:           "gitlite",
	Short:         "A minimal file-snapshot version control system",
	Long:          `gitlite tracks flat top-level files through a staging index, numbered commits and named branches`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setCommandName(cmd.Name())
		if noColorRequested {
			DisableColors()
		}

		err := viper.Unmarshal(&cfg, viper.DecodeHook(
			mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.StringToTimeDurationHookFunc())))
		if err != nil {
			DieFmt("error unmarshal configuration: %v", err)
		}
		// flags win; the config file fills in what the flags left unset
		logging.SetLevel(logLevel)
		if cfg.Logging.Level != "" && logLevel == DefaultLogLevel {
			logging.SetLevel(cfg.Logging.Level)
		}
		if logFormat == "" {
			logFormat = cfg.Logging.Format
		}
		logging.SetOutputFormat(logFormat)
		if len(logOutputs) == 0 {
			logOutputs = cfg.Logging.Outputs
		}
		logging.SetOutputs(logOutputs, cfg.Logging.FileMaxSizeMB, cfg.Logging.FilesKeep)
	},
}

const DefaultLogLevel = "none"

// Execute runs the root command with os.Args as cobra sees them.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		DieErr(err)
	}
}

// ExecuteSub runs a single sub-command selected by name. Used when the
// binary is invoked through a git-<sub> link and the basename picks the
// command.
func ExecuteSub(name string, args []string) {
	setCommandName(name)
	rootCmd.SetArgs(append([]string{name}, args...))
	if err := rootCmd.Execute(); err != nil {
		DieErr(err)
	}
}

//nolint:gochecknoinits
func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.gitlite.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColorRequested, "no-color", false, "don't use fancy output colors (default when not attached to an interactive terminal)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", DefaultLogLevel, "set logging level")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "", "", "set logging output format")
	rootCmd.PersistentFlags().StringSliceVarP(&logOutputs, "log-output", "", []string{}, "set logging output(s)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			DieErr(err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gitlite")
	}

	viper.SetDefault("database.type", "badger")
	viper.SetDefault("logging.level", "")
	viper.SetEnvPrefix("GITLITE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // support nested config
	viper.AutomaticEnv()                                   // read in environment variables that match

	// a config file is optional; a read or parse failure is fatal only for a
	// file named with --config, a broken default file is ignored
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && cfgFile != "" {
			DieFmt("error reading configuration file: %v", err)
		}
	}
}
