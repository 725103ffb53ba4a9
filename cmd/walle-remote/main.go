// Command walle-remote reads a locally attached controller and sends its state
// to a walle bridge started with -listen.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/0xcafed00d/joystick"

	"walle/internal/input"
	"walle/internal/remote"
)

const (
	DEFAULT_PORT = 8080
	SEND_RATE_HZ = 40 // one state per bridge loop period
)

// stream polls the controller and sends its state until either side fails.
func stream(ctx context.Context, reader *input.Reader, sender *remote.Sender, hz int) error {
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	lastPrint := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		state, err := reader.Poll()
		if err != nil {
			return err
		}
		if err := sender.Send(state); err != nil {
			return err
		}

		if time.Since(lastPrint) > time.Second {
			log.Println(state)
			lastPrint = time.Now()
		}
	}
}

func runClient(ctx context.Context, serverAddr string, hz int) error {
	sender, conn, err := remote.Dial(serverAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Println("Connected to server")

	// the bridge applies its own deadzone
	js, err := input.Connect(ctx, joystick.Open, input.RetryPolicy{Backoff: 2 * time.Second})
	if err != nil {
		return err
	}
	reader := input.NewReader(js, 0)
	defer reader.Close()

	return stream(ctx, reader, sender, hz)
}

func main() {
	serverAddr := flag.String("server", fmt.Sprintf("localhost:%d", DEFAULT_PORT), "Bridge address")
	hz := flag.Int("hz", SEND_RATE_HZ, "Send frequency")
	flag.Parse()

	if flag.NArg() > 0 {
		*serverAddr = flag.Arg(0)
	}
	if !strings.Contains(*serverAddr, ":") {
		*serverAddr = fmt.Sprintf("%s:%d", *serverAddr, DEFAULT_PORT)
	}
	if *hz <= 0 {
		log.Fatalf("invalid send frequency: %d", *hz)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Connecting to %s (Ctrl+C to stop)", *serverAddr)

	for ctx.Err() == nil {
		if err := runClient(ctx, *serverAddr, *hz); err != nil {
			log.Printf("Connection error: %v", err)
		}

		select {
		case <-ctx.Done():
		case <-time.After(3 * time.Second):
		}
	}
}
