package clock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/set"
)

// ParseBreakpoints parses a comma separated list of hex addresses.
// An optional $ or 0x prefix is accepted.
func ParseBreakpoints(list string) (set.Set[uint16], error) {
	breakpoints := set.New[uint16]()
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		s := strings.TrimPrefix(field, "$")
		s = strings.TrimPrefix(strings.ToLower(s), "0x")
		address, err := strconv.ParseUint(s, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("parsing breakpoint '%s': %w", field, err)
		}
		if address > machine.AddressMask {
			return nil, fmt.Errorf("breakpoint '%s' exceeds address space", field)
		}
		breakpoints[uint16(address)] = struct{}{}
	}
	return breakpoints, nil
}
