package audio

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

var ErrEmptyCatalog = errors.New("no sound clips in catalog")

// extensions recognised as sound clips
var extensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".ogg": true,
}

// Clip is one sound file in the catalog.
type Clip struct {
	Name string
	Path string

	// Duration is zero when the file could not be decoded
	Duration time.Duration
}

// Catalog is the list of clips found in the sound directory, in name order.
type Catalog struct {
	Dir   string
	Clips []Clip
}

// Scan lists dir for sound clips. Subdirectories are not searched.
func Scan(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}

	cat := &Catalog{Dir: dir}
	for _, e := range entries {
		if e.IsDir() || !extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		path := filepath.Join(dir, e.Name())
		cat.Clips = append(cat.Clips, Clip{
			Name:     e.Name(),
			Path:     path,
			Duration: Duration(path),
		})
	}
	sort.Slice(cat.Clips, func(i, j int) bool {
		return cat.Clips[i].Name < cat.Clips[j].Name
	})

	return cat, nil
}

func (cat *Catalog) Len() int {
	return len(cat.Clips)
}

// Random picks a clip uniformly.
func (cat *Catalog) Random(rng *rand.Rand) (Clip, error) {
	if len(cat.Clips) == 0 {
		return Clip{}, ErrEmptyCatalog
	}
	return cat.Clips[rng.IntN(len(cat.Clips))], nil
}

// Duration returns the playing time of an mp3 or wav file, or zero if it
// cannot be worked out.
func Duration(path string) time.Duration {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	var d time.Duration
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		d, err = mp3Duration(f)
	case ".wav":
		d, err = wavDuration(f)
	}
	if err != nil {
		return 0
	}
	return d
}

func mp3Duration(r io.Reader) (time.Duration, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, fmt.Errorf("mp3: %w", err)
	}

	// decoded stream is always 16 bit stereo
	samples := dec.Length() / 4
	if samples <= 0 || dec.SampleRate() <= 0 {
		return 0, fmt.Errorf("mp3: unknown length")
	}
	return time.Duration(samples) * time.Second / time.Duration(dec.SampleRate()), nil
}

func wavDuration(r io.ReadSeeker) (time.Duration, error) {
	dec := wav.NewDecoder(r)
	if dec == nil {
		return 0, fmt.Errorf("wav: error decoding")
	}
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("wav: not a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return 0, fmt.Errorf("wav: %w", err)
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return 0, fmt.Errorf("wav: no format information")
	}
	samples := len(buf.Data) / int(dec.NumChans)
	return time.Duration(samples) * time.Second / time.Duration(dec.SampleRate), nil
}
