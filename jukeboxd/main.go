/*
 * main.go
 *
 * jukeboxd runs one jukebox device on the host and exposes its
 * peripherals over a REST API.
 */
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/viper"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
	"github.com/sdg2-jukebox/jukebox/hw"
)

var cliconf = jukebox.CliConfig{}

func mainloop(conf *Config, apistopper chan struct{}) {
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	hupper := make(chan os.Signal, 1)
	signal.Notify(hupper, syscall.SIGHUP)

	fmt.Println("mainloop: entering signal dispatcher")

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		for {
			select {
			case <-exit:
				log.Println("mainloop: SIGTERM/SIGINT received, stopping.")
				wg.Done()
				return
			case <-apistopper:
				log.Println("mainloop: API stop received. Cleaning up.")
				// let the current api call return
				time.Sleep(1 * time.Second)
				wg.Done()
				return
			case <-hupper:
				log.Println("mainloop: SIGHUP received, checking config.")
				if err := LoadConfig(&Config{}, true); err != nil {
					log.Printf("mainloop: config check failed: %v", err)
				} else {
					log.Println("mainloop: config ok. Device settings apply at next restart.")
				}
			}
		}
	}()
	wg.Wait()

	fmt.Println("mainloop: leaving signal dispatcher")
}

// LoadConfig reads and validates the config file. In safe mode errors are
// returned and the running config is left alone.
func LoadConfig(conf *Config, safemode bool) error {
	fmt.Printf("LoadConfig: loading config from \"%s\". Safemode: %v\n", cfgFile, safemode)
	if safemode {
		tmpviper := viper.New()
		SetDefaults(tmpviper)
		tmpviper.SetConfigFile(cfgFile)
		if err := tmpviper.ReadInConfig(); err != nil {
			return err
		}
		if err := ValidateConfig(tmpviper, cfgFile, true); err != nil {
			return err
		}
		return tmpviper.Unmarshal(conf)
	}

	SetDefaults(viper.GetViper())
	viper.SetConfigFile(cfgFile)
	viper.SetEnvPrefix("jukeboxd")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Could not load config (%s)", err)
	}

	ValidateConfig(nil, cfgFile, false) // will terminate on error

	if err := viper.Unmarshal(conf); err != nil {
		log.Fatalf("LoadConfig: unable to unmarshal the config: %v", err)
	}

	cliconf.Verbose = viper.GetBool("common.verbose")
	cliconf.Debug = viper.GetBool("common.debug")
	return nil
}

func main() {
	var conf Config
	var err error

	flag.StringVar(&cfgFile, "config", DefaultCfgFile, "config file")
	flag.Usage = func() {
		fmt.Printf("Usage: %s [OPTIONS]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	LoadConfig(&conf, false) // on initial startup a config error should cause an abort.

	conf.Internal.APIStopCh = make(chan struct{})
	conf.Internal.UpdateC = make(chan jukebox.JournalUpdate, 1000)
	conf.Internal.Keymap, err = conf.Remote.Codes()
	if err != nil {
		log.Fatalf("Error from remote keymap: %v", err)
	}

	conf.Internal.JournalDB, err = jukebox.NewJournalDB(conf.Db.File, false)
	if err != nil {
		log.Fatalf("Error from NewJournalDB(%s): %v", conf.Db.File, err)
	}

	conf.Internal.Hardware, err = NewHardware(&conf, hw.NewWallClock())
	if err != nil {
		log.Fatalf("Error from NewHardware: %v", err)
	}
	conf.Internal.Engine = NewPollEngine(&conf, conf.Internal.Hardware)

	var done = make(chan struct{})

	go dbUpdater(&conf, done)
	go APIdispatcher(&conf, done)
	go conf.Internal.Engine.Run(done)

	mainloop(&conf, conf.Internal.APIStopCh)

	close(done)
	conf.Internal.Hardware.Close()
	// give the db updater a moment to flush
	time.Sleep(200 * time.Millisecond)
	conf.Internal.JournalDB.Close()
}
