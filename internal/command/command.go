// Package command turns controller snapshots into the commands sent to the
// Arduino and the local audio player.
package command

import (
	"fmt"
	"strconv"
)

// Kind identifies what a Command does.
type Kind int

const (
	MotorX Kind = iota
	MotorY
	ServoMode
	Gesture
	Animation
	Audio
)

func (k Kind) String() string {
	switch k {
	case MotorX:
		return "motor-x"
	case MotorY:
		return "motor-y"
	case ServoMode:
		return "servo-mode"
	case Gesture:
		return "gesture"
	case Animation:
		return "animation"
	case Audio:
		return "audio"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Gesture payloads. These are the bytes the Arduino sketch reacts to.
const (
	GestureB = 'b'
	GestureM = 'm'
)

// Animation payloads.
const (
	AnimationSoft        = 0 // starting sequence
	AnimationBoot        = 1 // boot-up eye sequence
	AnimationInquisitive = 2
)

// Audio payloads.
const (
	AudioName = iota
	AudioRandom
)

// Command is one outbound instruction.
type Command struct {
	Kind    Kind
	Payload int
}

// Serial reports whether the command is written to the serial link.
func (c Command) Serial() bool {
	return c.Kind != Audio
}

// Line returns the serial protocol line for the command, without the
// newline. Audio commands have no line.
func (c Command) Line() string {
	switch c.Kind {
	case MotorX:
		return "X" + strconv.Itoa(c.Payload)
	case MotorY:
		return "Y" + strconv.Itoa(c.Payload)
	case ServoMode:
		return "M" + strconv.Itoa(c.Payload)
	case Gesture:
		return string(rune(c.Payload))
	case Animation:
		return "A" + strconv.Itoa(c.Payload)
	}
	return ""
}

func (c Command) String() string {
	if c.Serial() {
		return c.Line()
	}
	return fmt.Sprintf("%s:%d", c.Kind, c.Payload)
}
