package types

// AppConfig is the unified application configuration, loaded from the config
// file, environment, and flags.
type AppConfig struct {
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Verbose bool          `mapstructure:"verbose"`
}

// ProjectConfig configures where state lives and which branch scopes it.
type ProjectConfig struct {
	// StateDir is the directory holding the database and lock file.
	StateDir string `mapstructure:"stateDir" validate:"required"`
	// Branch overrides git branch detection when set.
	Branch string `mapstructure:"branch"`
}
