package host

import (
	"bytes"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

const chimeSampleRate = 48000

var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

// ensureOtoContext creates the process-wide audio context on first use.
func ensureOtoContext() (*oto.Context, error) {
	otoInitOnce.Do(func() {
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   chimeSampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		})
		if otoInitErr != nil {
			return
		}
		<-ready
	})
	return otoCtx, otoInitErr
}

// Chime plays a short confirmation sound. A nil Chime is silent.
type Chime struct {
	mu     sync.Mutex
	sound  []byte
	player *oto.Player
}

// NewChime renders the sound up front. The audio device is opened on the
// first Play.
func NewChime() *Chime {
	return &Chime{sound: generateChime()}
}

// Play starts the chime, cutting off one that is still playing.
func (c *Chime) Play() {
	if c == nil {
		return
	}
	ctx, err := ensureOtoContext()
	if err != nil {
		log.Warnf("chime audio not available: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player != nil {
		c.player.Close()
	}
	c.player = ctx.NewPlayer(bytes.NewReader(c.sound))
	c.player.Play()
}

// Close stops playback.
func (c *Chime) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player != nil {
		c.player.Close()
		c.player = nil
	}
}

// generateChime renders two rising notes, E5 then B5, as 48kHz stereo S16LE.
func generateChime() []byte {
	const (
		duration = 0.35
		peak     = 9000
		attack   = 0.01
	)
	notes := []struct {
		freq  float64
		start float64
	}{
		{659.25, 0},
		{987.77, 0.09},
	}

	n := int(chimeSampleRate * duration)
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / chimeSampleRate
		v := 0.0
		for _, note := range notes {
			if t < note.start {
				continue
			}
			nt := t - note.start
			env := math.Exp(-9 * nt)
			if nt < attack {
				env *= nt / attack
			}
			v += math.Sin(2*math.Pi*note.freq*nt) * env * 0.5
		}
		v = math.Max(-1, math.Min(1, v))

		s := int16(v * peak)
		out[i*4] = byte(s)
		out[i*4+1] = byte(s >> 8)
		out[i*4+2] = byte(s)
		out[i*4+3] = byte(s >> 8)
	}
	return out
}
