// Package audio plays a show's backing track through the system speaker.
package audio

import (
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
	"github.com/robmorgan/beam/logger"
	"github.com/sirupsen/logrus"
)

// Player streams wav files through the speaker. At most one file plays at a
// time; starting a new one stops the previous one.
type Player struct {
	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	inited   bool
	rate     beep.SampleRate
}

// NewPlayer creates an idle player. The speaker is initialized lazily on the
// first Play, using that file's sample rate.
func NewPlayer() *Player {
	return &Player{}
}

// Play opens and starts the given wav file, replacing whatever was playing.
func (p *Player) Play(file string) error {
	log := logger.GetProjectLogger()

	f, err := os.Open(file)
	if err != nil {
		return errors.Wrapf(err, "opening audio file %s", file)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "decoding audio file %s", file)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	if !p.inited {
		// a 100ms buffer keeps the speaker responsive to stop calls
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			return errors.Wrap(err, "initializing speaker")
		}
		p.inited = true
		p.rate = format.SampleRate
	}

	var stream beep.Streamer = streamer
	if format.SampleRate != p.rate {
		stream = beep.Resample(4, format.SampleRate, p.rate, streamer)
	}

	p.streamer = streamer
	speaker.Play(stream)

	log.WithFields(logrus.Fields{"file": file, "rate": format.SampleRate}).Info("audio playing")
	return nil
}

// Stop halts playback and releases the current file. Safe to call when
// nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.streamer == nil {
		return
	}
	if p.inited {
		speaker.Clear()
	}
	p.streamer.Close()
	p.streamer = nil
}
