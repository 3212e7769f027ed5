/*
 * root.go
 */
package cmd

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
)

var cfgFile string
var showheaders bool

var cliconf = jukebox.CliConfig{}
var api *jukebox.Api

var validate *validator.Validate

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jukebox-cli",
	Short: "Client for jukeboxd",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig, initApi)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default is %s)", DefaultCfgFile))

	rootCmd.PersistentFlags().BoolVarP(&cliconf.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&cliconf.Debug, "debug", "d", false, "Debugging output")
	rootCmd.PersistentFlags().BoolVarP(&showheaders, "headers", "H", false, "Show column headers on output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigFile(DefaultCfgFile)
	}

	viper.SetEnvPrefix("jukebox")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if cliconf.Verbose {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}

	// Melody export works offline, the daemon section is only needed to
	// talk to jukeboxd.
	if !viper.IsSet("jukeboxd") {
		return
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("unable to unmarshal the config %v", err)
	}

	validate = validator.New()
	if err := validate.Struct(&config); err != nil {
		log.Fatalf("Missing required attributes %v\n", err)
	}
}

func initApi() {
	api = jukebox.NewClient(cliconf.Verbose, cliconf.Debug)
}
