package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// defaultConfig is what `projmem init` writes to .projmem.yaml.
type defaultConfig struct {
	Project struct {
		StateDir string `yaml:"stateDir"`
		Branch   string `yaml:"branch,omitempty"`
	} `yaml:"project"`
	Verbose bool `yaml:"verbose"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize project memory in the current directory",
	Long: `Create the state directory and database, and write a .projmem.yaml
config file with the defaults so they are visible and editable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := defaultConfig{}
		cfg.Project.StateDir = GetConfig().Project.StateDir

		configPath := configName + ".yaml"
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			data, err := yaml.Marshal(&cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			if err := os.WriteFile(configPath, data, 0644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			cmd.Printf("Wrote %s\n", configPath)
		} else {
			cmd.Printf("%s already exists, leaving it alone\n", configPath)
		}

		// Opening the store creates the directory, database and schema.
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		cmd.Printf("Initialized project memory in %s\n", cfg.Project.StateDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
