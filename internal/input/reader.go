// Package input reads the game controller. A Source hands the control loop
// one State per poll; Reader is the Source for a locally attached joystick.
package input

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/0xcafed00d/joystick"
)

// MaxJoysticks is the number of joystick ids probed when looking for a
// controller.
const MaxJoysticks = 4

var ErrNoController = errors.New("no controller found")

// Source is anything that can produce controller snapshots.
type Source interface {
	Poll() (State, error)
}

// Opener opens the joystick with the given id. joystick.Open satisfies it.
type Opener func(id int) (joystick.Joystick, error)

// Reader polls a local joystick.
type Reader struct {
	js       joystick.Joystick
	deadzone float64
}

func NewReader(js joystick.Joystick, deadzone float64) *Reader {
	return &Reader{js: js, deadzone: deadzone}
}

// Poll reads every axis and button of the joystick once.
func (r *Reader) Poll() (State, error) {
	jsState, err := r.js.Read()
	if err != nil {
		return State{}, fmt.Errorf("reading joystick: %w", err)
	}

	state := State{
		Axes:      make([]float64, len(jsState.AxisData)),
		Buttons:   make([]bool, r.js.ButtonCount()),
		Timestamp: time.Now().UnixMilli(),
	}
	for i, raw := range jsState.AxisData {
		state.Axes[i] = Deadzone(Normalize(raw), r.deadzone)
	}
	for i := range state.Buttons {
		if i >= 32 {
			break
		}
		state.Buttons[i] = (jsState.Buttons>>uint(i))&1 == 1
	}

	return state, nil
}

// Close releases the joystick.
func (r *Reader) Close() {
	r.js.Close()
}

func findController(open Opener) (joystick.Joystick, error) {
	for i := 0; i < MaxJoysticks; i++ {
		js, err := open(i)
		if err == nil {
			return js, nil
		}
	}
	return nil, ErrNoController
}

// RetryPolicy controls how long Connect waits for a controller. A
// MaxAttempts of zero retries until the context is cancelled.
type RetryPolicy struct {
	Backoff     time.Duration
	MaxAttempts int
}

// Connect blocks until a controller is found, the attempts in policy are
// used up or ctx is cancelled.
func Connect(ctx context.Context, open Opener, policy RetryPolicy) (joystick.Joystick, error) {
	for attempt := 1; ; attempt++ {
		js, err := findController(open)
		if err == nil {
			log.Printf("input: controller found: %s (%d axes, %d buttons)", js.Name(), js.AxisCount(), js.ButtonCount())
			return js, nil
		}

		if policy.MaxAttempts > 0 && attempt >= policy.MaxAttempts {
			return nil, fmt.Errorf("after %d attempts: %w", attempt, err)
		}
		log.Printf("input: waiting for controller (attempt %d)", attempt)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(policy.Backoff):
		}
	}
}
