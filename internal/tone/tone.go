// Package tone generates the square wave of the beeper.
package tone

// Defaults of the generated tone.
const (
	SampleRate = 44100
	Frequency  = 440
)

// Generator produces a continuous square wave across multiple calls.
type Generator struct {
	sampleRate int
	frequency  int
	position   int // sample position within the current period
}

// New returns a generator for a square wave of the given frequency.
func New(sampleRate, frequency int) *Generator {
	return &Generator{
		sampleRate: sampleRate,
		frequency:  frequency,
	}
}

// SamplesPerFrame returns the number of samples covering a single frame.
func (g *Generator) SamplesPerFrame(frameRate int) int {
	return g.sampleRate / frameRate
}

// Fill writes the next samples of the wave into buf, alternating between
// high and low. The period position is kept for the next call so that
// consecutive frames form a continuous wave.
func Fill[T int | uint8](g *Generator, buf []T, high, low T) {
	period := g.sampleRate / g.frequency
	for i := range buf {
		if g.position < period/2 {
			buf[i] = high
		} else {
			buf[i] = low
		}
		g.position = (g.position + 1) % period
	}
}

// Reset restarts the wave at the beginning of a period.
func (g *Generator) Reset() {
	g.position = 0
}
