// Package cli implements the contactctl command line client. Every
// subcommand talks to a running contactd server over its HTTP API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	serverURL string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "contactctl",
	Short: "contactctl - manage and filter contacts on a contactd server",
	Long: `contactctl is the command line client for contactd.

It adds, lists and removes contacts, and filters them with predicate
expressions of the form "component: pattern" or
"component|mode: pattern", e.g.

  contactctl filter "name|has: ali"
  contactctl filter "tag|word: cs dev"`,
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
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("contactctl v0.3.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.contactd/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "contactd server base URL (default: http://localhost:8080)")

	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.contactd")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CONTACTD_*
	viper.SetEnvPrefix("CONTACTD")
	viper.AutomaticEnv()

	viper.SetDefault("server", "http://localhost:8080")

	_ = viper.ReadInConfig()
}
