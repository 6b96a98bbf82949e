package main

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	chimeRate   = beep.SampleRate(44100)
	chimeFreq   = 880.0
	chimeLength = 120 * time.Millisecond
	chimeVolume = 0.2
)

// notifier is told about incoming activity: a peer joining or a chat line.
type notifier interface {
	Notify()
}

type nopNotifier struct{}

func (nopNotifier) Notify() {}

// Chime plays a short tone through the default audio device.
type Chime struct {
	rate beep.SampleRate
}

// NewChime opens the speaker. It fails on hosts without an audio device,
// in which case the caller runs silently.
func NewChime() (*Chime, error) {
	if err := speaker.Init(chimeRate, chimeRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("failed to initialise speaker: %w", err)
	}
	return &Chime{rate: chimeRate}, nil
}

// Notify queues the tone and returns immediately.
func (c *Chime) Notify() {
	speaker.Play(chimeTone(c.rate))
}

func chimeTone(rate beep.SampleRate) beep.Streamer {
	return beep.Take(rate.N(chimeLength), sineWave(rate, chimeFreq, chimeVolume))
}

// sineWave is an endless tone at freq Hz.
func sineWave(rate beep.SampleRate, freq, volume float64) beep.Streamer {
	step := 2 * math.Pi * freq / float64(rate)
	var phase float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := volume * math.Sin(phase)
			samples[i][0], samples[i][1] = v, v
			phase += step
			if phase > 2*math.Pi {
				phase -= 2 * math.Pi
			}
		}
		return len(samples), true
	})
}
