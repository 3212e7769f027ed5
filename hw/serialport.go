/*
 * serialport.go
 *
 * Connects the UART to a real serial device, so the jukebox can be driven
 * from a terminal program on the other end of a cable.
 */
package hw

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.bug.st/serial"
)

type SerialPort struct {
	name string
	port serial.Port
	uart *UART
	done chan struct{}
	once sync.Once
}

// OpenSerialPort opens the device and pumps received bytes into the UART.
// Transmitted lines are written back to the device.
func OpenSerialPort(name string, baud int, uart *UART) (*SerialPort, error) {
	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("OpenSerialPort: error opening %s: %w", name, err)
	}
	if err := p.SetReadTimeout(100 * time.Millisecond); err != nil {
		p.Close()
		return nil, fmt.Errorf("OpenSerialPort: error setting read timeout on %s: %w", name, err)
	}
	p.ResetInputBuffer()

	sp := &SerialPort{name: name, port: p, uart: uart, done: make(chan struct{})}
	uart.SetSink(sp)
	go sp.readPump()
	log.Printf("SerialPort: %s opened at %d baud", name, baud)
	return sp, nil
}

func (sp *SerialPort) readPump() {
	buf := make([]byte, 64)
	for {
		select {
		case <-sp.done:
			return
		default:
		}
		n, err := sp.port.Read(buf)
		if err != nil {
			var perr *serial.PortError
			if errors.As(err, &perr) && perr.Code() == serial.PortClosed {
				return
			}
			log.Printf("SerialPort: error reading from %s: %v", sp.name, err)
			return
		}
		for _, b := range buf[:n] {
			sp.uart.Receive(b)
		}
	}
}

func (sp *SerialPort) Write(p []byte) (int, error) {
	return sp.port.Write(p)
}

func (sp *SerialPort) Close() error {
	var err error
	sp.once.Do(func() {
		close(sp.done)
		sp.uart.SetSink(nil)
		err = sp.port.Close()
		log.Printf("SerialPort: %s closed", sp.name)
	})
	return err
}
