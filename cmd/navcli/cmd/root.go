// Package cmd implements navcli's cobra command tree, grounded on the
// teacher's cmd/cli/cmd package layout: one file per subcommand, a
// package-level rootCmd, global flags bound into viper in init(), and a
// single Execute() entry point called from main.
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	mapFile       string
	jsonOut       bool
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:          "navcli",
	Short:        "navcli - operator tooling for the ground-navigation core",
	SilenceUsage: true,
	Long: `navcli drives a navigation-core engine from the command line: replay
canned scenarios, render the grid as ASCII art, issue interactive pathfind
queries, or serve a debug HTTP introspection endpoint.

Examples:
  navcli scenario bridge-collapse
  navcli render --map testdata/arena.json
  navcli repl --map testdata/arena.json
  navcli serve --addr :8080`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./navcore.yaml)")
	rootCmd.PersistentFlags().StringVar(&mapFile, "map", "", "map snapshot file to load (JSON)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "show debug-level logging")

	viper.BindPFlag("map", rootCmd.PersistentFlags().Lookup("map"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("navcore")
	}

	viper.SetEnvPrefix("NAVCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		os.Stderr.WriteString("Using config file: " + viper.ConfigFileUsed() + "\n")
	}
}

func isJSONOutput() bool { return viper.GetBool("json") }
func isVerbose() bool    { return viper.GetBool("verbose") }
func mapPath() string    { return viper.GetString("map") }
