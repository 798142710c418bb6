package detector

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name      string
		systemOpt string
		inputFile string
		wantErr   string
	}{
		{
			name:      "explicit CHIP8 system option",
			systemOpt: "chip8",
			inputFile: "game.bin",
		},
		{
			name:      "detect from .ch8 extension",
			inputFile: "game.ch8",
		},
		{
			name:      "detect from .rom extension",
			inputFile: "game.rom",
		},
		{
			name:      "unknown extension defaults to CHIP8",
			inputFile: "game.bin",
		},
		{
			name:      "explicit CHIP8 overrides extension",
			systemOpt: "chip8",
			inputFile: "game.nes",
		},
		{
			name:      "explicit NES system option",
			systemOpt: "nes",
			inputFile: "game.ch8",
			wantErr:   "unsupported system",
		},
		{
			name:      "detect NES from extension",
			inputFile: "game.nes",
			wantErr:   "unsupported system",
		},
		{
			name:      "unknown system option",
			systemOpt: "c64-invalid",
			inputFile: "game.ch8",
			wantErr:   "unsupported system: c64-invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Program{
				Parameters: options.Parameters{Input: tt.inputFile},
				Flags:      options.Flags{System: tt.systemOpt},
			}

			got, err := d.Detect(opts)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, arch.CHIP8System, got)
		})
	}
}

func TestDetectFromFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name       string
		filename   string
		wantSystem arch.System
	}{
		{
			name:       ".ch8 extension",
			filename:   "pong.ch8",
			wantSystem: arch.CHIP8System,
		},
		{
			name:       ".CH8 extension (uppercase)",
			filename:   "PONG.CH8",
			wantSystem: arch.CHIP8System,
		},
		{
			name:       "no extension",
			filename:   "game",
			wantSystem: arch.CHIP8System,
		},
		{
			name:       ".NES extension (uppercase)",
			filename:   "ZELDA.NES",
			wantSystem: arch.NES,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.detectFromFile(tt.filename)
			assert.Equal(t, tt.wantSystem, got)
		})
	}
}
