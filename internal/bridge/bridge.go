// Package bridge runs the control loop: poll the controller, encode, write
// the command lines to the Arduino and trigger sounds, once per period.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"walle/internal/audio"
	"walle/internal/command"
	"walle/internal/config"
	"walle/internal/input"
	"walle/internal/link"
)

// State of the loop.
type State int

const (
	Running State = iota
	Terminating
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminating:
		return "terminating"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Link is where serial command lines go. *link.Link satisfies it.
type Link interface {
	Send(line string) error
	Flush() error
}

// Bridge owns everything the loop touches. It is not safe for concurrent
// use.
type Bridge struct {
	cfg     *config.Config
	source  input.Source
	link    Link
	player  audio.Player
	catalog *audio.Catalog
	encoder *command.Encoder
	rng     *rand.Rand

	state State

	// lines sent on the last iteration, for the status print
	sent      []string
	lastPrint time.Time
}

// New creates a bridge. player may be nil, in which case audio commands are
// ignored.
func New(cfg *config.Config, source input.Source, l Link, player audio.Player, catalog *audio.Catalog) *Bridge {
	if catalog == nil {
		catalog = &audio.Catalog{}
	}
	return &Bridge{
		cfg:     cfg,
		source:  source,
		link:    l,
		player:  player,
		catalog: catalog,
		encoder: command.NewEncoder(cfg),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		state:   Running,
	}
}

// SetRand replaces the random source used to pick clips.
func (b *Bridge) SetRand(rng *rand.Rand) {
	b.rng = rng
}

func (b *Bridge) State() State {
	return b.state
}

// Encoder exposes the loop's command encoder.
func (b *Bridge) Encoder() *command.Encoder {
	return b.encoder
}

// Startup plays the startup clip and waits for it to finish. The wait is the
// configured duration or, if that is zero, the length of the clip.
func (b *Bridge) Startup(ctx context.Context) error {
	if b.player == nil || b.cfg.Audio.StartupClip == "" {
		return nil
	}

	if err := b.player.Play(b.cfg.Audio.StartupClip); err != nil {
		log.Printf("bridge: startup sound: %v", err)
		return nil
	}

	wait := b.cfg.Audio.StartupDuration
	if wait == 0 {
		wait = audio.Duration(b.cfg.Audio.StartupClip)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
	}
	return nil
}

// Step runs one iteration of the loop, without the wait that follows it.
func (b *Bridge) Step(now time.Time) error {
	if err := b.link.Flush(); err != nil && !errors.Is(err, link.ErrNotConnected) {
		return fmt.Errorf("flushing serial input: %w", err)
	}

	state, err := b.source.Poll()
	if err != nil {
		return err
	}

	b.sent = b.sent[:0]
	for _, cmd := range b.encoder.Encode(state, now) {
		if !cmd.Serial() {
			b.sound(cmd)
			continue
		}
		line := cmd.Line()
		if err := b.link.Send(line); err != nil {
			return err
		}
		b.sent = append(b.sent, line)
	}

	if b.cfg.Loop.StatusEvery > 0 && now.Sub(b.lastPrint) >= b.cfg.Loop.StatusEvery {
		x, y := b.encoder.Head()
		log.Printf("bridge: %v head[%+.2f %+.2f] sent[%s]", state, x, y, strings.Join(b.sent, " "))
		b.lastPrint = now
	}

	return nil
}

func (b *Bridge) sound(cmd command.Command) {
	if b.player == nil {
		return
	}

	var path string
	switch cmd.Payload {
	case command.AudioName:
		path = b.cfg.Audio.NameClip
	case command.AudioRandom:
		clip, err := b.catalog.Random(b.rng)
		if err != nil {
			log.Printf("bridge: random sound: %v", err)
			return
		}
		log.Printf("bridge: playing %s", clip.Name)
		path = clip.Path
	default:
		return
	}

	if err := b.player.Play(path); err != nil {
		log.Printf("bridge: %v", err)
	}
}

// Run steps the loop once per period until ctx is cancelled, which is a
// clean exit. Any other error ends the loop and is returned.
func (b *Bridge) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.cfg.Loop.Period)
	defer ticker.Stop()

	for {
		if err := b.Step(time.Now()); err != nil {
			b.state = Terminating
			return err
		}

		select {
		case <-ctx.Done():
			b.state = Terminating
			return nil
		case <-ticker.C:
		}
	}
}
