package cpu

// alu executes the 8xyN register arithmetic and logic instructions.
// Vx is written before VF so that VF holds the flag when it is the target.
func (c *CPU) alu(ins Instruction) error {
	vx, vy, err := c.operands(ins)
	if err != nil {
		return err
	}

	var (
		result     byte
		flag       bool
		writesFlag = true
	)

	switch ins.Op {
	case OpMove:
		result, writesFlag = vy, false
	case OpOr:
		result, writesFlag = vx|vy, false
	case OpAnd:
		result, writesFlag = vx&vy, false
	case OpXor:
		result, writesFlag = vx^vy, false

	case OpAdd:
		sum := uint16(vx) + uint16(vy)
		result, flag = byte(sum), sum > 0xFF
	case OpSub:
		result, flag = vx-vy, vx >= vy
	case OpSubN:
		result, flag = vy-vx, vy >= vx

	case OpShr:
		if c.opts.Quirks.LegacyShift {
			vx = vy
		}
		result, flag = vx>>1, vx&0x01 != 0
	case OpShl:
		if c.opts.Quirks.LegacyShift {
			vx = vy
		}
		result, flag = vx<<1, vx&0x80 != 0
	}

	if err := c.state.SetRegister(int(ins.X), result); err != nil {
		return err
	}
	if !writesFlag {
		return nil
	}
	return c.setFlag(flag)
}
