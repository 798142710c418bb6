// Package wavrec records the sound signal of the virtual machine as a square
// wave into a WAV file. Every frame adds the samples of one frame period,
// either tone or silence.
package wavrec

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/retrochip8/internal/tone"
	"github.com/retroenv/retrogolib/log"
)

const (
	bitDepth    = 16
	channels    = 1
	pcmFormat   = 1
	amplitude   = 0x2000
	silentLevel = 0
)

// Recorder writes the sound signal into a WAV file.
type Recorder struct {
	logger *log.Logger
	closer io.Closer // file to close after the encoder, nil if not owned
	enc    *wav.Encoder
	tone   *tone.Generator
	buf    *audio.IntBuffer

	sounding bool
	frames   int
	err      error // first write error, reported by Close
}

// New creates the WAV file and returns a recorder writing to it.
func New(logger *log.Logger, filename string, frameRate int) (*Recorder, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("creating WAV file: %w", err)
	}

	r := newRecorder(logger, file, frameRate)
	r.closer = file
	return r, nil
}

func newRecorder(logger *log.Logger, w io.WriteSeeker, frameRate int) *Recorder {
	gen := tone.New(tone.SampleRate, tone.Frequency)
	return &Recorder{
		logger: logger,
		enc:    wav.NewEncoder(w, tone.SampleRate, bitDepth, channels, pcmFormat),
		tone:   gen,
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: channels,
				SampleRate:  tone.SampleRate,
			},
			Data:           make([]int, gen.SamplesPerFrame(frameRate)),
			SourceBitDepth: bitDepth,
		},
	}
}

// Sound appends one frame of tone or silence to the recording.
func (r *Recorder) Sound(on bool) {
	if r.err != nil {
		return
	}

	if on {
		if !r.sounding {
			r.tone.Reset()
		}
		tone.Fill(r.tone, r.buf.Data, amplitude, -amplitude)
	} else {
		for i := range r.buf.Data {
			r.buf.Data[i] = silentLevel
		}
	}
	r.sounding = on

	if err := r.enc.Write(r.buf); err != nil {
		r.err = fmt.Errorf("writing WAV samples: %w", err)
		r.logger.Error("Recording sound failed", log.Err(err))
		return
	}
	r.frames++
}

// Frames returns the number of recorded frames.
func (r *Recorder) Frames() int {
	return r.frames
}

// Close finalizes the WAV headers and closes the file. It returns the first
// error that occurred while recording.
func (r *Recorder) Close() error {
	err := r.enc.Close()
	if r.closer != nil {
		if closeErr := r.closer.Close(); err == nil {
			err = closeErr
		}
	}
	if r.err != nil {
		return r.err
	}
	if err != nil {
		return fmt.Errorf("closing WAV file: %w", err)
	}
	return nil
}
