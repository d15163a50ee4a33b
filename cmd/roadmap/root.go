package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Edit project roadmaps drawn as a winding road",
	Long: "roadmap keeps an ordered list of milestones, lays them out along a curved road, " +
		"and exports the drawing as SVG or PNG. Stages can be edited interactively, " +
		"as JSON, or drafted by a language model from a project description.",
	SilenceUsage: true,
	RunE:         runEdit,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .roadmap.yaml in . or $HOME)")
	flags.BoolP("verbose", "v", false, "debug logging")
	flags.String("storage", "", "storage backend: file or sqlite")
	flags.String("store-path", "", "directory holding the saved roadmap")
	flags.String("layout", "", "road layout: serpentine or wrap")
	flags.String("log-file", "", "write logs to this file")

	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("storage.backend", flags.Lookup("storage"))
	_ = viper.BindPFlag("storage.path", flags.Lookup("store-path"))
	_ = viper.BindPFlag("layout.mode", flags.Lookup("layout"))
	_ = viper.BindPFlag("log_file", flags.Lookup("log-file"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".roadmap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	// No config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}
