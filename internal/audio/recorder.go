// Package audio records the sound timer state of a run as a square wave and
// writes it as a PCM WAV file. The samples are buffered in memory and written
// to disk at the end of the run.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/log"
)

// Output format of the recording.
const (
	SampleRate      = 44100
	BitDepth        = 16
	Channels        = 1
	FramesPerSecond = 60
	ToneFrequency   = 440

	// SamplesPerFrame is the number of samples recorded for every frame.
	SamplesPerFrame = SampleRate / FramesPerSecond

	amplitude    = 0x2000
	wavFormatPCM = 1
)

// Recorder implements runner.Beeper.
type Recorder struct {
	logger  *log.Logger
	samples []int
	active  int // frames with an active tone
}

// NewRecorder returns a new recorder.
func NewRecorder(logger *log.Logger) *Recorder {
	return &Recorder{
		logger: logger,
	}
}

// Beep appends the samples of a frame, a square wave while the tone is
// active and silence otherwise. The wave phase continues across frames.
func (r *Recorder) Beep(_ int, active bool) {
	start := len(r.samples)
	if !active {
		r.samples = append(r.samples, make([]int, SamplesPerFrame)...)
		return
	}

	r.active++
	for n := start; n < start+SamplesPerFrame; n++ {
		// two half periods per tone period
		if n*2*ToneFrequency/SampleRate%2 == 0 {
			r.samples = append(r.samples, amplitude)
		} else {
			r.samples = append(r.samples, -amplitude)
		}
	}
}

// Frames returns the number of recorded frames.
func (r *Recorder) Frames() int {
	return len(r.samples) / SamplesPerFrame
}

// Write encodes the recording as WAV data.
func (r *Recorder) Write(w io.WriteSeeker) error {
	if len(r.samples) == 0 {
		return errors.New("no audio recorded")
	}

	enc := wav.NewEncoder(w, SampleRate, BitDepth, Channels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: Channels,
			SampleRate:  SampleRate,
		},
		Data:           r.samples,
		SourceBitDepth: BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing encoder: %w", err)
	}
	return nil
}

// WriteFile writes the recording to a WAV file.
func (r *Recorder) WriteFile(path string) (rerr error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing file '%s': %w", path, err)
		}
	}()

	if err := r.Write(f); err != nil {
		return fmt.Errorf("writing audio to '%s': %w", path, err)
	}

	r.logger.Info("Wrote audio recording",
		log.String("file", path),
		log.Int("frames", r.Frames()),
		log.Int("tone_frames", r.active))
	return nil
}
