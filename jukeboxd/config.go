/*
 * config.go
 */
package main

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
	"github.com/sdg2-jukebox/jukebox/machines"
)

const DefaultCfgFile = "/etc/jukebox/jukeboxd.yaml"

var cfgFile string

type Config struct {
	ApiServer ApiServerConf
	Device    DeviceConf
	Poll      PollConf
	Serial    SerialConf
	Audio     AudioConf
	Remote    RemoteConf
	Db        DbConf
	Common    CommonConf
	Internal  InternalConf `mapstructure:"-"`
}

type ApiServerConf struct {
	Address string `validate:"required,hostname_port"`
	ApiKey  string `validate:"required"`
}

type DeviceConf struct {
	DebounceMs    uint32 `mapstructure:"debounce_ms" validate:"gt=0"`
	PowerToggleMs uint32 `mapstructure:"power_toggle_ms" validate:"gtfield=NextSongMs"`
	NextSongMs    uint32 `mapstructure:"next_song_ms" validate:"gt=0"`
	FarewellSlot  int    `mapstructure:"farewell_slot" validate:"gte=0,lt=10"`
	GameSlots     int    `mapstructure:"game_slots" validate:"gt=0,lte=10"`
	Seed          int64
}

// Poll intervals are in milliseconds.
type PollConf struct {
	Intervals IntervalConf
}

type IntervalConf struct {
	Minimum int `validate:"gt=0,ltfield=Maximum"`
	Maximum int `validate:"gt=0,lte=1000"`
}

// An empty device means no serial port, the UART is then only reachable
// through the API.
type SerialConf struct {
	Device string
	Baud   int `validate:"omitempty,gt=0"`
}

type AudioConf struct {
	Backend    string `validate:"oneof=none speaker"`
	SampleRate int    `mapstructure:"samplerate" validate:"gt=0"`
}

// Keymap maps NEC codes, written in hex, to text commands.
type RemoteConf struct {
	Enabled bool
	Keymap  map[string]string
}

type DbConf struct {
	File string `validate:"required"`
}

type CommonConf struct {
	Verbose bool
	Debug   bool
}

// Internal stuff that we want to be able to reach via the Config struct, but
// is not represented in the yaml config file.
type InternalConf struct {
	APIStopCh chan struct{}
	UpdateC   chan jukebox.JournalUpdate
	JournalDB *jukebox.JournalDB
	Hardware  *Hardware
	Engine    *PollEngine
	Keymap    map[uint32]string
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("device.debounce_ms", 50)
	v.SetDefault("device.power_toggle_ms", machines.DefaultPowerToggleMs)
	v.SetDefault("device.next_song_ms", machines.DefaultNextSongMs)
	v.SetDefault("device.farewell_slot", machines.FarewellSlot)
	v.SetDefault("device.game_slots", machines.DefaultGameSlots)
	v.SetDefault("device.seed", 1)
	v.SetDefault("poll.intervals.minimum", 1)
	v.SetDefault("poll.intervals.maximum", 20)
	v.SetDefault("serial.baud", 9600)
	v.SetDefault("audio.backend", "none")
	v.SetDefault("audio.samplerate", 44100)
}

// Codes parses the keymap. Codes may be given as 0x... or decimal.
func (rc RemoteConf) Codes() (map[uint32]string, error) {
	res := map[uint32]string{}
	for k, cmd := range rc.Keymap {
		code, err := strconv.ParseUint(k, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("remote.keymap: bad code %q: %w", k, err)
		}
		res[uint32(code)] = cmd
	}
	return res, nil
}

// DeviceConfig is the machines view of the device section.
func (conf *Config) DeviceConfig() machines.DeviceConfig {
	return machines.DeviceConfig{
		DebounceMs: conf.Device.DebounceMs,
		Jukebox: machines.JukeboxConfig{
			PowerToggleMs: conf.Device.PowerToggleMs,
			NextSongMs:    conf.Device.NextSongMs,
			FarewellSlot:  conf.Device.FarewellSlot,
			GameSlots:     conf.Device.GameSlots,
			Seed:          conf.Device.Seed,
			Keymap:        conf.Internal.Keymap,
		},
	}
}

func ValidateConfig(v *viper.Viper, cfgfile string, safemode bool) error {
	var config Config

	if v == nil {
		if safemode {
			return errors.New("ValidateConfig: cannot use safe mode with nil viper")
		}
		v = viper.GetViper()
	}

	fail := func(err error) error {
		if safemode {
			return err
		}
		log.Fatalf("%v", err)
		return err
	}

	if err := v.Unmarshal(&config); err != nil {
		return fail(fmt.Errorf("ValidateConfig: unable to unmarshal the config: %w", err))
	}

	validate := validator.New()
	if err := validate.Struct(&config); err != nil {
		return fail(fmt.Errorf("ValidateConfig: \"%s\" is missing required attributes:\n%v", cfgfile, err))
	}
	if _, err := config.Remote.Codes(); err != nil {
		return fail(fmt.Errorf("ValidateConfig: \"%s\": %w", cfgfile, err))
	}
	return nil
}
