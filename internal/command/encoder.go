package command

import (
	"time"

	"walle/internal/config"
	"walle/internal/input"
)

// Encoder maps controller snapshots to commands. It owns the state that
// persists between polls: the servo auto-mode toggle and the button timing.
type Encoder struct {
	axes     config.Axes
	buttons  config.Buttons
	invertX  bool
	invertY  bool
	cooldown time.Duration

	autoServo bool

	// when a level-triggered button last fired
	lastFired map[int]time.Time

	// buttons that were pressed on the previous poll
	held map[int]bool

	headX float64
	neckY float64
}

func NewEncoder(cfg *config.Config) *Encoder {
	return &Encoder{
		axes:      cfg.Axes,
		buttons:   cfg.Buttons,
		invertX:   cfg.Input.InvertX,
		invertY:   cfg.Input.InvertY,
		cooldown:  cfg.Loop.ButtonCooldown,
		lastFired: make(map[int]time.Time),
		held:      make(map[int]bool),
	}
}

// AutoServo returns the current servo auto-mode.
func (e *Encoder) AutoServo() bool {
	return e.autoServo
}

// Head returns the head direction and neck values read on the last Encode.
// The Arduino sketch has no command for them yet so they are never sent.
func (e *Encoder) Head() (x float64, y float64) {
	return e.headX, e.neckY
}

// Encode returns the commands for one poll, always in the order: motors,
// servo mode, left arm, right arm, animations, audio. The motor pair and the
// servo mode are present on every call.
func (e *Encoder) Encode(state input.State, now time.Time) []Command {
	cmds := make([]Command, 0, 8)

	cmds = e.motors(state, cmds)
	cmds = e.servoMode(state, now, cmds)
	e.headDirection(state)
	e.neckTop(state)
	cmds = e.leftArm(state, cmds)
	cmds = e.rightArm(state, cmds)
	cmds = e.presetAnimations(state, cmds)
	cmds = e.sounds(state, now, cmds)

	return cmds
}

func (e *Encoder) axisX(state input.State, axis int) float64 {
	if e.invertX {
		return -state.Axis(axis)
	}
	return state.Axis(axis)
}

func (e *Encoder) axisY(state input.State, axis int) float64 {
	if e.invertY {
		return -state.Axis(axis)
	}
	return state.Axis(axis)
}

// scale converts an axis value to the -100..100 range of the motor commands,
// truncating toward zero.
func scale(v float64) int {
	return int(v * 100)
}

func (e *Encoder) motors(state input.State, cmds []Command) []Command {
	return append(cmds,
		Command{Kind: MotorX, Payload: scale(e.axisX(state, e.axes.LeftX))},
		Command{Kind: MotorY, Payload: scale(e.axisY(state, e.axes.LeftY))},
	)
}

func (e *Encoder) servoMode(state input.State, now time.Time, cmds []Command) []Command {
	if e.level(state, e.buttons.Select, now) {
		e.autoServo = !e.autoServo
	}

	mode := 0
	if e.autoServo {
		mode = 1
	}
	return append(cmds, Command{Kind: ServoMode, Payload: mode})
}

func (e *Encoder) headDirection(state input.State) {
	e.headX = state.Axis(e.axes.RightX)
}

func (e *Encoder) neckTop(state input.State) {
	e.neckY = e.axisY(state, e.axes.RightY)
}

func (e *Encoder) leftArm(state input.State, cmds []Command) []Command {
	if e.edge(state, e.buttons.L2) {
		cmds = append(cmds, Command{Kind: Gesture, Payload: GestureB})
	}
	if e.edge(state, e.buttons.L1) {
		cmds = append(cmds, Command{Kind: Gesture, Payload: GestureM})
	}
	return cmds
}

// rightArm mirrors leftArm: the outer trigger and the bumper swap gestures.
func (e *Encoder) rightArm(state input.State, cmds []Command) []Command {
	if e.edge(state, e.buttons.R2) {
		cmds = append(cmds, Command{Kind: Gesture, Payload: GestureM})
	}
	if e.edge(state, e.buttons.R1) {
		cmds = append(cmds, Command{Kind: Gesture, Payload: GestureB})
	}
	return cmds
}

func (e *Encoder) presetAnimations(state input.State, cmds []Command) []Command {
	if e.edge(state, e.buttons.Square) {
		cmds = append(cmds, Command{Kind: Animation, Payload: AnimationSoft})
	}
	if e.edge(state, e.buttons.Triangle) {
		cmds = append(cmds, Command{Kind: Animation, Payload: AnimationBoot})
	}
	if e.edge(state, e.buttons.Circle) {
		cmds = append(cmds, Command{Kind: Animation, Payload: AnimationInquisitive})
	}
	return cmds
}

func (e *Encoder) sounds(state input.State, now time.Time, cmds []Command) []Command {
	if e.level(state, e.buttons.Cross, now) {
		cmds = append(cmds, Command{Kind: Audio, Payload: AudioName})
	}
	if e.level(state, e.buttons.R3, now) {
		cmds = append(cmds, Command{Kind: Audio, Payload: AudioRandom})
	}
	return cmds
}

// edge fires once when button goes from released to pressed.
func (e *Encoder) edge(state input.State, button int) bool {
	pressed := state.Button(button)
	fire := pressed && !e.held[button]
	e.held[button] = pressed
	return fire
}

// level fires while button is pressed, at most once per cooldown.
func (e *Encoder) level(state input.State, button int, now time.Time) bool {
	if !state.Button(button) {
		return false
	}
	if last, ok := e.lastFired[button]; ok && now.Sub(last) < e.cooldown {
		return false
	}
	e.lastFired[button] = now
	return true
}
