// Command walle-mock feeds a walle bridge started with -listen with a
// synthetic controller, for exercising the robot without a gamepad.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"walle/internal/config"
	"walle/internal/input"
	"walle/internal/remote"
)

// wave is a sine in [-1,1]
func wave(t float64, phase float64) float64 {
	return math.Sin(2 * math.Pi * (t + phase))
}

// mockState builds a snapshot at elapsed seconds. Buttons flip slowly so
// the bridge's edge and cooldown handling can be seen at work.
func mockState(elapsed float64, random bool, rng *rand.Rand) input.State {
	axes := config.Default().Axes
	buttons := config.Default().Buttons

	state := input.State{
		Axes:      make([]float64, 6),
		Buttons:   make([]bool, 17),
		Timestamp: time.Now().UnixMilli(),
	}

	if random {
		state.Axes[axes.LeftX] = rng.Float64()*2 - 1
		state.Axes[axes.LeftY] = rng.Float64()*2 - 1
		state.Axes[axes.RightX] = rng.Float64()*2 - 1
		state.Axes[axes.RightY] = rng.Float64()*2 - 1
	} else {
		state.Axes[axes.LeftX] = wave(elapsed/4, 0.00)
		state.Axes[axes.LeftY] = wave(elapsed/4, 0.25)
		state.Axes[axes.RightX] = wave(elapsed/4, 0.50)
		state.Axes[axes.RightY] = wave(elapsed/4, 0.125)
	}

	state.Buttons[buttons.Select] = (int(elapsed)/11)%2 == 1
	state.Buttons[buttons.Square] = (int(elapsed)/2)%2 == 1
	state.Buttons[buttons.Triangle] = (int(elapsed)/3)%2 == 1
	state.Buttons[buttons.Circle] = (int(elapsed)/5)%2 == 1
	state.Buttons[buttons.L2] = (int(elapsed)/7)%2 == 1
	state.Buttons[buttons.R2] = (int(elapsed)/4)%2 == 1

	return state
}

func main() {
	server := flag.String("server", "127.0.0.1:8080", "bridge address host:port")
	hz := flag.Float64("hz", 40, "send frequency")
	random := flag.Bool("random", false, "send random values instead of smooth wave")
	flag.Parse()

	sender, conn, err := remote.Dial(*server)
	if err != nil {
		panic(err)
	}
	defer conn.Close()
	fmt.Println("Connected to", *server)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / *hz))
	defer ticker.Stop()
	start := time.Now()
	rng := rand.New(rand.NewPCG(uint64(start.UnixNano()), 0))

	for range ticker.C {
		state := mockState(time.Since(start).Seconds(), *random, rng)
		if err := sender.Send(state); err != nil {
			fmt.Println("send error:", err)
			return
		}
	}
}
