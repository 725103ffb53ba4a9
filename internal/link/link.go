// Package link writes command lines to the Arduino over a serial port. The
// protocol is one newline-terminated text command per line; nothing is ever
// read back.
package link

import (
	"errors"
	"fmt"
	"log"
	"time"

	"go.bug.st/serial"
)

var ErrNotConnected = errors.New("serial link not connected")

// Port is the part of serial.Port the link uses.
type Port interface {
	Write(p []byte) (int, error)
	ResetInputBuffer() error
	Close() error
}

// Link is a write-only serial connection. A Link without a port is
// unusable and every Send fails with ErrNotConnected.
type Link struct {
	port Port
	name string
}

// New wraps an already open port.
func New(port Port, name string) *Link {
	return &Link{port: port, name: name}
}

// Open opens the serial port once. On failure it logs the reason and the
// ports that do exist, and returns an unusable link.
func Open(portName string, baudRate int) *Link {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		log.Printf("link: unable to connect serial %s: %v", portName, err)
		if ports, err := serial.GetPortsList(); err == nil && len(ports) > 0 {
			log.Printf("link: available ports: %v", ports)
		}
		return &Link{name: portName}
	}

	port.SetReadTimeout(100 * time.Millisecond)
	if err := port.ResetInputBuffer(); err != nil {
		log.Printf("link: flush %s: %v", portName, err)
	}

	log.Printf("link: connected %s at %d baud", portName, baudRate)
	return &Link{port: port, name: portName}
}

// Connected reports whether the link has an open port.
func (l *Link) Connected() bool {
	return l.port != nil
}

func (l *Link) String() string {
	if l.port == nil {
		return fmt.Sprintf("%s (not connected)", l.name)
	}
	return l.name
}

// Send writes line followed by a newline.
func (l *Link) Send(line string) error {
	if l.port == nil {
		return ErrNotConnected
	}
	if _, err := l.port.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("serial write %q: %w", line, err)
	}
	return nil
}

// Flush discards anything the Arduino has written to us.
func (l *Link) Flush() error {
	if l.port == nil {
		return ErrNotConnected
	}
	return l.port.ResetInputBuffer()
}

func (l *Link) Close() error {
	if l.port == nil {
		return nil
	}
	err := l.port.Close()
	l.port = nil
	return err
}
