// Command walle drives the robot from a game controller. Motion and animation
// commands go to the Arduino over serial, sound effects play locally.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0xcafed00d/joystick"

	"walle/internal/audio"
	"walle/internal/bridge"
	"walle/internal/config"
	"walle/internal/input"
	"walle/internal/link"
	"walle/internal/remote"
)

type options struct {
	configFile string
	quiet      bool
}

func newFlagSet(cfg *config.Config, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("walle", flag.ExitOnError)
	fs.StringVar(&opts.configFile, "config", opts.configFile, "YAML configuration file")
	fs.BoolVar(&opts.quiet, "quiet", opts.quiet, "Do not print the periodic status line")
	cfg.RegisterFlags(fs)
	return fs
}

// loadConfig applies, in order: defaults, the -config file, the other flags.
func loadConfig(args []string) (*config.Config, *options, error) {
	cfg := config.Default()
	opts := &options{}
	if err := newFlagSet(cfg, opts).Parse(args); err != nil {
		return nil, nil, err
	}

	if opts.configFile != "" {
		var err error
		cfg, err = config.Load(opts.configFile)
		if err != nil {
			return nil, nil, err
		}
		if err := newFlagSet(cfg, opts).Parse(args); err != nil {
			return nil, nil, err
		}
		log.Printf("Loaded config %s", opts.configFile)
	}

	if opts.quiet {
		cfg.Loop.StatusEvery = 0
	}
	return cfg, opts, cfg.Validate()
}

// openSource returns the controller input: a remote feed when one is
// configured, otherwise the local joystick, waiting for it if necessary.
func openSource(ctx context.Context, cfg *config.Config) (input.Source, func(), error) {
	if cfg.Remote.Listen != "" {
		srv, err := remote.Listen(cfg.Remote.Listen, cfg.Input.Deadzone)
		if err != nil {
			return nil, nil, err
		}
		go srv.Serve(ctx)
		return srv, func() { srv.Close() }, nil
	}

	policy := input.RetryPolicy{
		Backoff:     cfg.Input.RetryBackoff,
		MaxAttempts: cfg.Input.RetryAttempts,
	}
	js, err := input.Connect(ctx, joystick.Open, policy)
	if err != nil {
		return nil, nil, err
	}

	select {
	case <-ctx.Done():
		js.Close()
		return nil, nil, ctx.Err()
	case <-time.After(cfg.Input.Settle):
	}

	reader := input.NewReader(js, cfg.Input.Deadzone)
	return reader, reader.Close, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	defer closeSource()

	lnk := link.Open(cfg.Serial.Port, cfg.Serial.Baud)
	defer lnk.Close()

	catalog, err := audio.Scan(cfg.Audio.Dir)
	if err != nil {
		log.Printf("No sound clips: %v", err)
		catalog = &audio.Catalog{Dir: cfg.Audio.Dir}
	} else {
		log.Printf("Found %d sound clips in %s", catalog.Len(), catalog.Dir)
	}

	var player audio.Player
	mixer, err := audio.NewMixer(cfg.Audio.Volume)
	if err != nil {
		log.Printf("Audio disabled: %v", err)
	} else {
		defer mixer.Close()
		player = mixer
	}

	b := bridge.New(cfg, source, lnk, player, catalog)
	if err := b.Startup(ctx); err != nil {
		return err
	}

	log.Printf("Running (Ctrl+C to stop)")
	return b.Run(ctx)
}

func main() {
	cfg, _, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg)
	interrupted := ctx.Err() != nil
	stop()
	if err != nil && !interrupted {
		log.Printf("Stopped: %v", err)
		os.Exit(1)
	}
	log.Println("The program was stopped manually")
}
