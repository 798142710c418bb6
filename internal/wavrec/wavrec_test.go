package wavrec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/retroenv/retrochip8/internal/tone"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestRecorder(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "sound.wav")

	rec, err := New(log.NewTestLogger(t), filename, 60)
	assert.NoError(t, err)

	rec.Sound(false)
	rec.Sound(true)
	rec.Sound(true)
	assert.Equal(t, 3, rec.Frames())
	assert.NoError(t, rec.Close())

	file, err := os.Open(filename)
	assert.NoError(t, err)
	defer func() { _ = file.Close() }()

	dec := wav.NewDecoder(file)
	assert.True(t, dec.IsValidFile())
	assert.Equal(t, uint32(tone.SampleRate), dec.SampleRate)
	assert.Equal(t, uint16(bitDepth), dec.BitDepth)
	assert.Equal(t, uint16(channels), dec.NumChans)

	buf, err := dec.FullPCMBuffer()
	assert.NoError(t, err)

	samplesPerFrame := tone.SampleRate / 60
	assert.Len(t, buf.Data, 3*samplesPerFrame)
	assert.Equal(t, 0, buf.Data[0])
	assert.Equal(t, 0, buf.Data[samplesPerFrame-1])
	assert.Equal(t, amplitude, buf.Data[samplesPerFrame])

	period := tone.SampleRate / tone.Frequency
	assert.Equal(t, -amplitude, buf.Data[samplesPerFrame+period/2])
}

func TestNewError(t *testing.T) {
	_, err := New(log.NewTestLogger(t), filepath.Join(t.TempDir(), "missing", "sound.wav"), 60)
	assert.ErrorContains(t, err, "creating WAV file")
}
