package acquire

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/limits"
	"github.com/opd-ai/scoremix/timeline"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// Built-in bed parameters.
const (
	BedDurationMs = 4000
	BedSampleRate = 22050
	bedAmplitude  = 0.2
)

// FallbackInfo describes one table entry.
type FallbackInfo struct {
	Mood   timeline.SubMood
	Source string
	Digest string
}

type fallbackEntry struct {
	path   string // empty for built-in beds
	data   []byte // built-in payload, encoded lazily
	digest [blake2b.Size256]byte
}

// FallbackTable maps sub-moods to verified static audio. Every sub-mood has a
// built-in synthesized bed; Register replaces one with a file on disk.
// Safe for concurrent use.
type FallbackTable struct {
	mu      sync.Mutex
	entries map[timeline.SubMood]*fallbackEntry
}

// NewFallbackTable creates a table holding only the built-in beds.
func NewFallbackTable() *FallbackTable {
	return &FallbackTable{entries: make(map[timeline.SubMood]*fallbackEntry)}
}

// Register replaces the bed for mood with the file at path. hexDigest is the
// expected BLAKE2b-256 of the file's bytes, checked on every Resolve.
func (t *FallbackTable) Register(mood timeline.SubMood, path, hexDigest string) error {
	if !mood.Valid() {
		return fmt.Errorf("%w: %s", timeline.ErrUnknownSubMood, mood)
	}
	raw, err := hex.DecodeString(hexDigest)
	if err != nil || len(raw) != blake2b.Size256 {
		return fmt.Errorf("fallback %s: digest must be %d hex bytes", mood, blake2b.Size256)
	}

	e := &fallbackEntry{path: path}
	copy(e.digest[:], raw)

	t.mu.Lock()
	t.entries[mood] = e
	t.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "FallbackTable.Register",
		"mood":     mood.String(),
		"path":     path,
	}).Info("Registered fallback entry")
	return nil
}

// entry returns the entry for mood, synthesizing the built-in bed on first use.
func (t *FallbackTable) entry(mood timeline.SubMood) (*fallbackEntry, error) {
	if !mood.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrNoFallback, mood)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[mood]; ok {
		return e, nil
	}
	data, err := audio.EncodeWAVBytes(synthesizeBed(mood))
	if err != nil {
		return nil, fmt.Errorf("encode fallback %s: %w", mood, err)
	}
	e := &fallbackEntry{data: data, digest: blake2b.Sum256(data)}
	t.entries[mood] = e
	return e, nil
}

// Resolve loads, verifies and decodes the entry for mood.
func (t *FallbackTable) Resolve(ctx context.Context, mood timeline.SubMood, decoder *audio.Decoder) (*audio.Buffer, error) {
	e, err := t.entry(mood)
	if err != nil {
		return nil, err
	}

	data := e.data
	if e.path != "" {
		info, err := os.Stat(e.path)
		if err != nil {
			return nil, fmt.Errorf("fallback %s: %w", mood, err)
		}
		if err := limits.ValidateLocalTrack(info.Size()); err != nil {
			return nil, fmt.Errorf("fallback %s: %w", mood, err)
		}
		if data, err = os.ReadFile(e.path); err != nil {
			return nil, fmt.Errorf("fallback %s: %w", mood, err)
		}
	}

	sum := blake2b.Sum256(data)
	if !bytes.Equal(sum[:], e.digest[:]) {
		logrus.WithFields(logrus.Fields{
			"function": "FallbackTable.Resolve",
			"mood":     mood.String(),
			"expected": hex.EncodeToString(e.digest[:]),
			"actual":   hex.EncodeToString(sum[:]),
		}).Error("Fallback payload failed verification")
		return nil, fmt.Errorf("%w: %s", ErrDigestMismatch, mood)
	}

	buf, err := decoder.Decode(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("decode fallback %s: %w", mood, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "FallbackTable.Resolve",
		"mood":     mood.String(),
		"builtin":  e.path == "",
		"frames":   buf.Frames(),
	}).Debug("Resolved fallback entry")

	return buf, nil
}

// Entries lists every sub-mood with its source and digest, sorted by mood.
func (t *FallbackTable) Entries() ([]FallbackInfo, error) {
	moods := timeline.AllSubMoods()
	sort.Slice(moods, func(i, j int) bool { return moods[i] < moods[j] })

	out := make([]FallbackInfo, 0, len(moods))
	for _, m := range moods {
		e, err := t.entry(m)
		if err != nil {
			return nil, err
		}
		src := "builtin"
		if e.path != "" {
			src = e.path
		}
		out = append(out, FallbackInfo{Mood: m, Source: src, Digest: hex.EncodeToString(e.digest[:])})
	}
	return out, nil
}

// Digest returns the hex BLAKE2b-256 of data, the form Register expects.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Chord intervals in semitones, chosen by parent mood.
var (
	majorTriad = []float64{0, 4, 7}
	minorTriad = []float64{0, 3, 7}
	suspended  = []float64{0, 5, 7}
)

// synthesizeBed renders a deterministic mono chord pad for mood: a triad on a
// root derived from the sub-mood index, with a slow tremolo whose rate rises
// with the mood's energy.
func synthesizeBed(mood timeline.SubMood) *audio.Buffer {
	intervals := majorTriad
	tremolo := 0.5
	switch mood.Mood() {
	case "Sad", "Anxious", "Angry":
		intervals = minorTriad
	case "Calm", "Neutral":
		intervals = suspended
		tremolo = 0.25
	}
	switch mood.Mood() {
	case "Energetic", "Angry", "Surprised":
		tremolo = 2
	case "Anxious":
		tremolo = 4
	}

	root := 110 * math.Pow(2, float64(int(mood)%12)/12)
	freqs := make([]float64, len(intervals))
	for i, semi := range intervals {
		freqs[i] = 2 * math.Pi * root * math.Pow(2, semi/12)
	}

	buf := audio.NewSilence(BedDurationMs, 1, BedSampleRate)
	frames := buf.Frames()
	fadeFrames := frames / 10

	for i := 0; i < frames; i++ {
		t := float64(i) / BedSampleRate
		var s float64
		for _, w := range freqs {
			s += math.Sin(w * t)
		}
		s /= float64(len(freqs))
		s *= 0.75 + 0.25*math.Sin(2*math.Pi*tremolo*t)

		env := 1.0
		if i < fadeFrames {
			env = float64(i) / float64(fadeFrames)
		} else if i >= frames-fadeFrames {
			env = float64(frames-1-i) / float64(fadeFrames)
		}
		buf.Samples[i] = float32(s * env * bedAmplitude)
	}
	return buf
}
