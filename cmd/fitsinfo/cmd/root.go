package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/paulmatencio/s3c/gLog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	config   string
	verbose  bool
	loglevel int

	missingInput  = "missing input file - please provide the path of a FITS file"
	missingOutput = "missing output file - please provide the path of the file to write"

	// RootCmd is the base command when called without any subcommands.
	RootCmd = &cobra.Command{
		Use:           "fitsinfo",
		Short:         "Inspect and manipulate FITS files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	RootCmd.PersistentFlags().IntVarP(&loglevel, "loglevel", "l", 1, "output level of logs (1: error, 2: warning, 3: info, 4: trace, 5: debug)")
	RootCmd.PersistentFlags().StringVarP(&config, "config", "c", "", "full path of the config file; default $HOME/.fitsinfo/config.yaml")

	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("logging.log_level", RootCmd.PersistentFlags().Lookup("loglevel"))
	viper.SetDefault("logging.output", "terminal")

	cobra.OnInitialize(initConfig)
}

// initConfig reads the config file and FITSINFO_* environment variables,
// then sets up logging.
func initConfig() {
	if config != "" {
		viper.SetConfigFile(config)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.Fatalln(err)
		}
		viper.AddConfigPath(filepath.Join(home, ".fitsinfo"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FITSINFO")
	viper.AutomaticEnv()

	readErr := viper.ReadInConfig()

	gLog.InitLog(RootCmd.Name(), viper.GetInt("logging.log_level"), viper.GetString("logging.output"))

	if readErr == nil {
		gLog.Trace.Printf("Using config file: %s", viper.ConfigFileUsed())
	} else if config != "" {
		gLog.Warning.Printf("Error %v reading config file %s", readErr, config)
	}
}
