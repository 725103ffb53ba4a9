package input

import (
	"fmt"
	"math"
	"strings"
)

// axisScale is the magnitude the joystick driver reports at full deflection.
const axisScale = 32767

// State is one snapshot of the controller. Axes are normalised to [-1,1].
type State struct {
	Axes    []float64 `json:"axes"`
	Buttons []bool    `json:"buttons"`

	// Metadata
	Timestamp int64 `json:"ts"`
}

// Axis returns the value of axis i, or 0 if the controller has no such axis.
func (s State) Axis(i int) float64 {
	if i < 0 || i >= len(s.Axes) {
		return 0
	}
	return s.Axes[i]
}

// Button returns whether button i is pressed. Missing buttons are never
// pressed.
func (s State) Button(i int) bool {
	if i < 0 || i >= len(s.Buttons) {
		return false
	}
	return s.Buttons[i]
}

// Deadzoned returns a copy of s with every axis passed through Deadzone.
func (s State) Deadzoned(threshold float64) State {
	out := State{
		Axes:      make([]float64, len(s.Axes)),
		Buttons:   make([]bool, len(s.Buttons)),
		Timestamp: s.Timestamp,
	}
	for i, v := range s.Axes {
		out.Axes[i] = Deadzone(v, threshold)
	}
	copy(out.Buttons, s.Buttons)
	return out
}

func (s State) String() string {
	var b strings.Builder
	b.WriteString("Axes[")
	for i, v := range s.Axes {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d:%+.2f", i, v)
	}
	b.WriteString("] Btns[")
	first := true
	for i, v := range s.Buttons {
		if !v {
			continue
		}
		if !first {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d", i)
		first = false
	}
	b.WriteString("]")
	return b.String()
}

// Deadzone reports v as exactly zero when its magnitude does not exceed
// threshold.
func Deadzone(v float64, threshold float64) float64 {
	if math.Abs(v) <= threshold {
		return 0
	}
	return v
}

// Normalize converts a raw driver axis value to [-1,1].
func Normalize(raw int) float64 {
	v := float64(raw) / axisScale
	return math.Max(-1, math.Min(1, v))
}
