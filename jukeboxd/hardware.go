/*
 * hardware.go
 *
 * Builds the simulated peripherals and the optional real backends from the
 * config.
 */
package main

import (
	"fmt"
	"log"

	"github.com/sdg2-jukebox/jukebox/hw"
	"github.com/sdg2-jukebox/jukebox/machines"
)

type Hardware struct {
	Clock   hw.Clock
	Waker   *hw.Waker
	Button  *hw.Button
	UART    *hw.UART
	Buzzer  *hw.Buzzer
	LCD     *hw.LCD
	Power   *hw.Power
	IR      *hw.NECReceiver // nil unless the remote is enabled
	Serial  *hw.SerialPort
	Speaker *hw.Speaker
}

func NewHardware(conf *Config, clock hw.Clock) (*Hardware, error) {
	w := hw.NewWaker()
	h := &Hardware{
		Clock:  clock,
		Waker:  w,
		Button: hw.NewButton(w),
		UART:   hw.NewUART(w),
		LCD:    hw.NewLCD(),
		Power:  &hw.Power{},
	}
	h.UART.Verbose = conf.Common.Verbose

	var sounder hw.Sounder = hw.NullSounder{}
	switch conf.Audio.Backend {
	case "speaker":
		spk, err := hw.NewSpeaker(conf.Audio.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("NewHardware: %w", err)
		}
		h.Speaker = spk
		sounder = spk
		log.Printf("NewHardware: sounding notes on the speaker at %d Hz", conf.Audio.SampleRate)
	case "none", "":
	default:
		return nil, fmt.Errorf("NewHardware: unknown audio backend: %s", conf.Audio.Backend)
	}
	h.Buzzer = hw.NewBuzzer(clock, sounder, w)

	if conf.Remote.Enabled {
		h.IR = hw.NewNECReceiver(w)
	}

	if conf.Serial.Device != "" {
		sp, err := hw.OpenSerialPort(conf.Serial.Device, conf.Serial.Baud, h.UART)
		if err != nil {
			h.Close()
			return nil, fmt.Errorf("NewHardware: %w", err)
		}
		h.Serial = sp
	}
	return h, nil
}

func (h *Hardware) Ports() machines.Ports {
	p := machines.Ports{
		Clock:   h.Clock,
		Button:  h.Button,
		Tone:    h.Buzzer,
		UART:    h.UART,
		Display: h.LCD,
		Power:   h.Power,
	}
	// a nil *NECReceiver in the interface would not read as absent
	if h.IR != nil {
		p.IR = h.IR
	}
	return p
}

func (h *Hardware) Close() {
	if h.Serial != nil {
		h.Serial.Close()
	}
	if h.Speaker != nil {
		h.Speaker.Close()
	}
}
