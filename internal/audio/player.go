// Package audio finds and plays the robot's sound clips. Playback is fire and
// forget: Play returns as soon as the clip has started and nothing waits for
// it to finish.
package audio

import (
	"fmt"
	"sync"

	"github.com/veandco/go-sdl2/mix"
	"github.com/veandco/go-sdl2/sdl"
)

// Player starts a clip and returns without waiting for it. Starting a clip
// replaces whatever was playing.
type Player interface {
	Play(path string) error
}

// Mixer plays clips on the single SDL_mixer music channel.
type Mixer struct {
	crit  sync.Mutex
	music *mix.Music

	// volume in SDL_mixer units
	volume int
}

// MaxVolume is the top of the 0..MaxVolume scale accepted by NewMixer.
const MaxVolume = 10

// NewMixer initialises SDL audio and SDL_mixer. volume is on a 0..10 scale.
func NewMixer(volume int) (*Mixer, error) {
	if volume < 0 || volume > MaxVolume {
		return nil, fmt.Errorf("audio: volume out of range: %d", volume)
	}

	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}

	// mp3 and ogg support depends on how SDL_mixer was built. wav always
	// works so a failure here is not fatal
	_ = mix.Init(mix.INIT_MP3 | mix.INIT_OGG)

	if err := mix.OpenAudio(mix.DEFAULT_FREQUENCY, mix.DEFAULT_FORMAT, mix.DEFAULT_CHANNELS, 4096); err != nil {
		mix.Quit()
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("audio: %w", err)
	}

	return &Mixer{
		volume: volume * mix.MAX_VOLUME / MaxVolume,
	}, nil
}

// Play loads path and starts it once.
func (m *Mixer) Play(path string) error {
	m.crit.Lock()
	defer m.crit.Unlock()

	music, err := mix.LoadMUS(path)
	if err != nil {
		return fmt.Errorf("audio: %s: %w", path, err)
	}

	// halting before freeing the previous clip stops SDL_mixer fading it out
	if m.music != nil {
		mix.HaltMusic()
		m.music.Free()
	}
	m.music = music

	mix.VolumeMusic(m.volume)
	if err := music.Play(1); err != nil {
		return fmt.Errorf("audio: %s: %w", path, err)
	}
	return nil
}

// Playing reports whether a clip is still playing.
func (m *Mixer) Playing() bool {
	return mix.PlayingMusic()
}

// Close stops playback and shuts down SDL audio.
func (m *Mixer) Close() {
	m.crit.Lock()
	defer m.crit.Unlock()

	mix.HaltMusic()
	if m.music != nil {
		m.music.Free()
		m.music = nil
	}
	mix.CloseAudio()
	mix.Quit()
	sdl.Quit()
}
