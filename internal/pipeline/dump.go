package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/machine"
)

// stateView is the part of the machine state that is written to the state
// dump. Memory is left out as it would dominate the graph.
type stateView struct {
	PC         string
	Index      string
	Registers  [machine.RegisterCount]string
	Stack      []string
	DelayTimer byte
	SoundTimer byte
	Display    *displayView
}

type displayView struct {
	Rows []string
}

// dumpState writes a graphviz dot graph of the machine state and the display
// to the given file.
func dumpState(filename string, state *machine.State, frame framebuffer.Frame) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating state dump file: %w", err)
	}

	memviz.Map(file, newStateView(state, frame))

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing state dump file: %w", err)
	}
	return nil
}

func newStateView(state *machine.State, frame framebuffer.Frame) *stateView {
	view := &stateView{
		PC:         fmt.Sprintf("$%03X", state.PC()),
		Index:      fmt.Sprintf("$%03X", state.Index()),
		DelayTimer: state.DelayTimer(),
		SoundTimer: state.SoundTimer(),
		Display: &displayView{
			Rows: strings.Split(strings.TrimSuffix(frame.String(), "\n"), "\n"),
		},
	}

	for i, value := range state.Registers() {
		view.Registers[i] = fmt.Sprintf("$%02X", value)
	}
	for _, address := range state.Stack() {
		view.Stack = append(view.Stack, fmt.Sprintf("$%03X", address))
	}
	return view
}
