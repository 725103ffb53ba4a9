package audio

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"walle/internal/test"
)

// writeWav creates a mono 16 bit wav file of the given number of samples.
func writeWav(t *testing.T, path string, sampleRate int, samples int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, samples),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "walle-name-long.mp3"))
	touch(t, filepath.Join(dir, "Eve.MP3"))
	touch(t, filepath.Join(dir, "readme.txt"))
	writeWav(t, filepath.Join(dir, "beep.wav"), 8000, 8000)
	if err := os.Mkdir(filepath.Join(dir, "sub.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}

	cat, err := Scan(dir)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cat.Len(), 3)
	test.ExpectEquality(t, cat.Clips[0].Name, "Eve.MP3")
	test.ExpectEquality(t, cat.Clips[1].Name, "beep.wav")
	test.ExpectEquality(t, cat.Clips[2].Name, "walle-name-long.mp3")
	test.ExpectEquality(t, cat.Clips[2].Path, filepath.Join(dir, "walle-name-long.mp3"))

	// undecodable mp3 has no duration, the wav is one second long
	test.ExpectEquality(t, cat.Clips[0].Duration, time.Duration(0))
	test.ExpectEquality(t, cat.Clips[1].Duration, time.Second)
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "sounds"))
	test.ExpectFailure(t, err)
}

func TestDurationMissingFile(t *testing.T) {
	test.ExpectEquality(t, Duration(filepath.Join(t.TempDir(), "none.wav")), time.Duration(0))
}

func TestRandomEmpty(t *testing.T) {
	cat := &Catalog{}
	_, err := cat.Random(rand.New(rand.NewPCG(1, 2)))
	test.ExpectEquality(t, errors.Is(err, ErrEmptyCatalog), true)
}

func TestRandomUniform(t *testing.T) {
	cat := &Catalog{}
	for _, n := range []string{"a.mp3", "b.mp3", "c.mp3", "d.mp3"} {
		cat.Clips = append(cat.Clips, Clip{Name: n})
	}

	rng := rand.New(rand.NewPCG(1, 2))
	counts := make(map[string]int)
	const draws = 40000
	for i := 0; i < draws; i++ {
		clip, err := cat.Random(rng)
		if err != nil {
			t.Fatal(err)
		}
		counts[clip.Name]++
	}

	test.ExpectEquality(t, len(counts), cat.Len())
	for name, c := range counts {
		if c < draws/cat.Len()*9/10 || c > draws/cat.Len()*11/10 {
			t.Errorf("clip %s chosen %d times out of %d", name, c, draws)
		}
	}
}
