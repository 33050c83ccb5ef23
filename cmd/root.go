package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/projmem/projmem/internal/gitutil"
	"github.com/projmem/projmem/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "projmem",
	Short: "Persistent project memory for coding sessions",
	Long: `projmem keeps project management state - tasks, dependencies, blockers,
decisions and file knowledge - in a local SQLite database, scoped to the
current git branch.

It is primarily driven by AI tools over the Model Context Protocol
(projmem mcp), with CLI commands for inspecting and editing state by hand.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.projmem.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetStore opens the state store configured for this invocation. Callers own
// the returned store and must Close it.
func GetStore() (*store.Store, error) {
	config := GetConfig()
	s, err := store.New(config.Project.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", config.Project.StateDir, err)
	}
	return s, nil
}

// CurrentBranch resolves the branch scoping this invocation: the configured
// override when set, the git checkout otherwise.
func CurrentBranch() string {
	if b := GetConfig().Project.Branch; b != "" {
		return b
	}
	return gitutil.CurrentBranch()
}
