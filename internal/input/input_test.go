package input

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/0xcafed00d/joystick"

	"walle/internal/test"
)

type fakeJoystick struct {
	state  joystick.State
	err    error
	closed bool
}

func (f *fakeJoystick) AxisCount() int   { return len(f.state.AxisData) }
func (f *fakeJoystick) ButtonCount() int { return 17 }
func (f *fakeJoystick) Name() string     { return "fake pad" }
func (f *fakeJoystick) Close()           { f.closed = true }

func (f *fakeJoystick) Read() (joystick.State, error) {
	return f.state, f.err
}

func TestDeadzone(t *testing.T) {
	tests := []struct {
		v, threshold, want float64
	}{
		{0.1, 0.15, 0},
		{-0.1, 0.15, 0},
		{0.15, 0.15, 0},
		{-0.15, 0.15, 0},
		{0.16, 0.15, 0.16},
		{-0.9, 0.15, -0.9},
		{1, 0.15, 1},
		{0.01, 0, 0.01},
		{0, 0, 0},
	}
	for _, tt := range tests {
		test.ExpectEquality(t, Deadzone(tt.v, tt.threshold), tt.want)
	}
}

func TestNormalize(t *testing.T) {
	test.ExpectEquality(t, Normalize(0), 0.0)
	test.ExpectEquality(t, Normalize(32767), 1.0)
	test.ExpectEquality(t, Normalize(-32767), -1.0)
	test.ExpectEquality(t, Normalize(-32768), -1.0)
	test.ExpectApproximate(t, Normalize(16384), 0.5, 0.001)
}

func TestStateOutOfRange(t *testing.T) {
	s := State{Axes: []float64{0.5}, Buttons: []bool{true}}
	test.ExpectEquality(t, s.Axis(0), 0.5)
	test.ExpectEquality(t, s.Axis(1), 0.0)
	test.ExpectEquality(t, s.Axis(-1), 0.0)
	test.ExpectEquality(t, s.Button(0), true)
	test.ExpectEquality(t, s.Button(5), false)
}

func TestDeadzoned(t *testing.T) {
	s := State{Axes: []float64{0.1, -0.5}, Buttons: []bool{true, false}, Timestamp: 7}
	d := s.Deadzoned(0.15)
	test.ExpectEquality(t, d.Axis(0), 0.0)
	test.ExpectEquality(t, d.Axis(1), -0.5)
	test.ExpectEquality(t, d.Button(0), true)
	test.ExpectEquality(t, d.Timestamp, int64(7))

	// original untouched
	test.ExpectEquality(t, s.Axis(0), 0.1)
}

func TestReaderPoll(t *testing.T) {
	js := &fakeJoystick{
		state: joystick.State{
			AxisData: []int{16384, -1000, 0, 32767, -32767, 0},
			Buttons:  1<<8 | 1<<3,
		},
	}
	r := NewReader(js, 0.15)

	s, err := r.Poll()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(s.Axes), 6)
	test.ExpectEquality(t, len(s.Buttons), 17)
	test.ExpectApproximate(t, s.Axis(0), 0.5, 0.001)
	test.ExpectEquality(t, s.Axis(1), 0.0)
	test.ExpectEquality(t, s.Axis(3), 1.0)
	test.ExpectEquality(t, s.Axis(4), -1.0)
	test.ExpectEquality(t, s.Button(8), true)
	test.ExpectEquality(t, s.Button(3), true)
	test.ExpectEquality(t, s.Button(0), false)

	r.Close()
	test.ExpectEquality(t, js.closed, true)
}

func TestReaderPollError(t *testing.T) {
	js := &fakeJoystick{err: errors.New("unplugged")}
	_, err := NewReader(js, 0.15).Poll()
	test.ExpectFailure(t, err)
}

func TestConnectRetries(t *testing.T) {
	calls := 0
	js := &fakeJoystick{}
	open := func(id int) (joystick.Joystick, error) {
		calls++
		// controller appears on the second round, at id 2
		if calls > MaxJoysticks && id == 2 {
			return js, nil
		}
		return nil, errors.New("no device")
	}

	got, err := Connect(context.Background(), open, RetryPolicy{Backoff: time.Millisecond})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, got, joystick.Joystick(js))
	test.ExpectEquality(t, calls, MaxJoysticks+3)
}

func TestConnectBounded(t *testing.T) {
	open := func(id int) (joystick.Joystick, error) {
		return nil, errors.New("no device")
	}

	_, err := Connect(context.Background(), open, RetryPolicy{Backoff: time.Millisecond, MaxAttempts: 3})
	test.ExpectEquality(t, errors.Is(err, ErrNoController), true)
}

func TestConnectCancelled(t *testing.T) {
	open := func(id int) (joystick.Joystick, error) {
		return nil, errors.New("no device")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Connect(ctx, open, RetryPolicy{Backoff: time.Hour})
	test.ExpectEquality(t, errors.Is(err, context.Canceled), true)
}
