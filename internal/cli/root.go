package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cesfam",
	Short: "Cesfam - registry comparison & data quality diagnostics",
	Long: `Cesfam compares two tabular registry exports (CSV or Excel) and reports
the differences between them.

It builds an identity key for each dataset from whatever columns are
available - national identifier, name components, or a full-name field -
then diffs the two key spaces and flags missing records, surplus records,
duplicates, and incomplete rows.

Cesfam reads the files as they are: it never modifies the inputs.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Cesfam.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cesfam v0.2.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.cesfam/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.cesfam")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CESFAM_*
	viper.SetEnvPrefix("CESFAM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	registerDefaults()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// registerDefaults seeds viper with every key of the default configuration,
// so CESFAM_* environment variables resolve against known keys and
// effectiveConfig sees the full hierarchy.
func registerDefaults() {
	raw, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return
	}
	var settings map[string]interface{}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return
	}
	for key, value := range settings {
		viper.SetDefault(key, value)
	}
}

// effectiveConfig assembles the runtime configuration from the hierarchy:
// built-in defaults, overlaid by the config file and CESFAM_* environment
// variables. Flag overrides stay with the individual commands.
func effectiveConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
