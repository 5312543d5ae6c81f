package rv64

// Execute decodes and runs one instruction word. The register-zero guard
// (setReg discarding writes to x0) replaces the reference core's
// reset-after-the-fact assignment of regs[0]=0 on every instruction.
//
// Every funct3/funct7 sub-case left unmatched inside a recognized major
// opcode raises IllegalInstruction rather than silently doing nothing.
func (c *CPU) Execute(inst uint32) error {
	op := opcode(inst)

	switch op {
	case 0x03: // loads
		return c.execLoad(inst)
	case 0x0f: // fence family: single-hart sequential core, no-op
		return nil
	case 0x13: // I-type ALU
		return c.execOpImm(inst)
	case 0x17: // auipc
		c.setReg(rd(inst), c.PC+immU(inst)-4)
		return nil
	case 0x1b: // I-type 32-bit ALU (W-suffixed)
		return c.execOpImm32(inst)
	case 0x23: // stores
		return c.execStore(inst)
	case 0x2f: // RV64A atomics
		return c.execAMO(inst)
	case 0x33: // R-type ALU
		return c.execOp(inst)
	case 0x37: // lui
		c.setReg(rd(inst), immU(inst))
		return nil
	case 0x3b: // R-type 32-bit ALU (W-suffixed)
		return c.execOp32(inst)
	case 0x63: // branches
		return c.execBranch(inst)
	case 0x67: // jalr
		return c.execJalr(inst)
	case 0x6f: // jal
		c.setReg(rd(inst), c.PC)
		c.PC = c.PC + immJ(inst) - 4
		return nil
	case 0x73: // system: ecall/ebreak/sret/mret/sfence.vma/CSR ops
		return c.execSystem(inst)
	default:
		return ExcIllegalInstruction
	}
}

func (c *CPU) execLoad(inst uint32) error {
	addr := c.reg(rs1(inst)) + immI(inst)
	d := rd(inst)
	switch funct3(inst) {
	case 0x0: // lb
		v, err := c.Bus.Load(addr, 8)
		if err != nil {
			return ExcLoadAccessFault
		}
		c.setReg(d, uint64(int64(int8(v))))
	case 0x1: // lh
		v, err := c.Bus.Load(addr, 16)
		if err != nil {
			return ExcLoadAccessFault
		}
		c.setReg(d, uint64(int64(int16(v))))
	case 0x2: // lw
		v, err := c.Bus.Load(addr, 32)
		if err != nil {
			return ExcLoadAccessFault
		}
		c.setReg(d, uint64(int64(int32(v))))
	case 0x3: // ld
		v, err := c.Bus.Load(addr, 64)
		if err != nil {
			return ExcLoadAccessFault
		}
		c.setReg(d, v)
	case 0x4: // lbu
		v, err := c.Bus.Load(addr, 8)
		if err != nil {
			return ExcLoadAccessFault
		}
		c.setReg(d, v)
	case 0x5: // lhu
		v, err := c.Bus.Load(addr, 16)
		if err != nil {
			return ExcLoadAccessFault
		}
		c.setReg(d, v)
	case 0x6: // lwu
		v, err := c.Bus.Load(addr, 32)
		if err != nil {
			return ExcLoadAccessFault
		}
		c.setReg(d, v)
	default:
		return ExcIllegalInstruction
	}
	return nil
}

func (c *CPU) execOpImm(inst uint32) error {
	imm := immI(inst)
	shamt := uint32(imm & 0x3f)
	d, s1 := rd(inst), c.reg(rs1(inst))
	switch funct3(inst) {
	case 0x0: // addi
		c.setReg(d, s1+imm)
	case 0x1: // slli
		c.setReg(d, s1<<shamt)
	case 0x2: // slti
		c.setReg(d, boolToReg(int64(s1) < int64(imm)))
	case 0x3: // sltiu
		c.setReg(d, boolToReg(s1 < imm))
	case 0x4: // xori
		c.setReg(d, s1^imm)
	case 0x5:
		switch funct7(inst) >> 1 {
		case 0x00: // srli
			c.setReg(d, s1>>shamt)
		case 0x10: // srai
			c.setReg(d, uint64(int64(s1)>>shamt))
		default:
			return ExcIllegalInstruction
		}
	case 0x6: // ori
		c.setReg(d, s1|imm)
	case 0x7: // andi
		c.setReg(d, s1&imm)
	default:
		return ExcIllegalInstruction
	}
	return nil
}

func (c *CPU) execOpImm32(inst uint32) error {
	imm := immI(inst)
	shamt := uint32(imm & 0x1f)
	d, s1 := rd(inst), c.reg(rs1(inst))
	switch funct3(inst) {
	case 0x0: // addiw
		c.setReg(d, uint64(int64(int32(s1+imm))))
	case 0x1: // slliw
		c.setReg(d, uint64(int64(int32(uint32(s1)<<shamt))))
	case 0x5:
		switch funct7(inst) {
		case 0x00: // srliw
			c.setReg(d, uint64(int64(int32(uint32(s1)>>shamt))))
		case 0x20: // sraiw
			c.setReg(d, uint64(int64(int32(s1)>>shamt)))
		default:
			return ExcIllegalInstruction
		}
	default:
		return ExcIllegalInstruction
	}
	return nil
}

func (c *CPU) execStore(inst uint32) error {
	addr := c.reg(rs1(inst)) + immS(inst)
	val := c.reg(rs2(inst))
	switch funct3(inst) {
	case 0x0: // sb
		if err := c.Bus.Store(addr, 8, val); err != nil {
			return ExcStoreAMOAccessFault
		}
	case 0x1: // sh
		if err := c.Bus.Store(addr, 16, val); err != nil {
			return ExcStoreAMOAccessFault
		}
	case 0x2: // sw
		if err := c.Bus.Store(addr, 32, val); err != nil {
			return ExcStoreAMOAccessFault
		}
	case 0x3: // sd
		if err := c.Bus.Store(addr, 64, val); err != nil {
			return ExcStoreAMOAccessFault
		}
	default:
		return ExcIllegalInstruction
	}
	return nil
}

func (c *CPU) execAMO(inst uint32) error {
	f7 := funct7(inst)
	funct5 := (f7 & 0b1111100) >> 2
	f3 := funct3(inst)
	addr := c.reg(rs1(inst))
	d, s2 := rd(inst), c.reg(rs2(inst))

	switch {
	case f3 == 0x2 && funct5 == 0x00: // amoadd.w
		t, err := c.Bus.Load(addr, 32)
		if err != nil {
			return ExcLoadAccessFault
		}
		if err := c.Bus.Store(addr, 32, t+s2); err != nil {
			return ExcStoreAMOAccessFault
		}
		c.setReg(d, uint64(int64(int32(t))))
	case f3 == 0x3 && funct5 == 0x00: // amoadd.d
		t, err := c.Bus.Load(addr, 64)
		if err != nil {
			return ExcLoadAccessFault
		}
		if err := c.Bus.Store(addr, 64, t+s2); err != nil {
			return ExcStoreAMOAccessFault
		}
		c.setReg(d, t)
	case f3 == 0x2 && funct5 == 0x01: // amoswap.w
		t, err := c.Bus.Load(addr, 32)
		if err != nil {
			return ExcLoadAccessFault
		}
		if err := c.Bus.Store(addr, 32, s2); err != nil {
			return ExcStoreAMOAccessFault
		}
		c.setReg(d, uint64(int64(int32(t))))
	case f3 == 0x3 && funct5 == 0x01: // amoswap.d
		t, err := c.Bus.Load(addr, 64)
		if err != nil {
			return ExcLoadAccessFault
		}
		if err := c.Bus.Store(addr, 64, s2); err != nil {
			return ExcStoreAMOAccessFault
		}
		c.setReg(d, t)
	default:
		return ExcIllegalInstruction
	}
	return nil
}

func (c *CPU) execOp(inst uint32) error {
	d, s1, s2 := rd(inst), c.reg(rs1(inst)), c.reg(rs2(inst))
	shamt := uint32(s2 & 0x3f)
	switch {
	case funct3(inst) == 0x0 && funct7(inst) == 0x00: // add
		c.setReg(d, s1+s2)
	case funct3(inst) == 0x0 && funct7(inst) == 0x20: // sub
		c.setReg(d, s1-s2)
	case funct3(inst) == 0x1 && funct7(inst) == 0x00: // sll
		c.setReg(d, s1<<shamt)
	case funct3(inst) == 0x2 && funct7(inst) == 0x00: // slt
		c.setReg(d, boolToReg(int64(s1) < int64(s2)))
	case funct3(inst) == 0x3 && funct7(inst) == 0x00: // sltu
		c.setReg(d, boolToReg(s1 < s2))
	case funct3(inst) == 0x4 && funct7(inst) == 0x00: // xor
		c.setReg(d, s1^s2)
	case funct3(inst) == 0x5 && funct7(inst) == 0x00: // srl
		c.setReg(d, s1>>shamt)
	case funct3(inst) == 0x5 && funct7(inst) == 0x20: // sra
		c.setReg(d, uint64(int64(s1)>>shamt))
	case funct3(inst) == 0x6 && funct7(inst) == 0x00: // or
		c.setReg(d, s1|s2)
	case funct3(inst) == 0x7 && funct7(inst) == 0x00: // and
		c.setReg(d, s1&s2)
	default:
		return ExcIllegalInstruction
	}
	return nil
}

func (c *CPU) execOp32(inst uint32) error {
	d, s1, s2 := rd(inst), c.reg(rs1(inst)), c.reg(rs2(inst))
	shamt := uint32(s2 & 0x1f)
	switch {
	case funct3(inst) == 0x0 && funct7(inst) == 0x00: // addw
		c.setReg(d, uint64(int64(int32(s1+s2))))
	case funct3(inst) == 0x0 && funct7(inst) == 0x20: // subw
		c.setReg(d, uint64(int64(int32(s1-s2))))
	case funct3(inst) == 0x1 && funct7(inst) == 0x00: // sllw
		c.setReg(d, uint64(int64(int32(uint32(s1)<<shamt))))
	case funct3(inst) == 0x5 && funct7(inst) == 0x00: // srlw
		c.setReg(d, uint64(int64(int32(uint32(s1)>>shamt))))
	case funct3(inst) == 0x5 && funct7(inst) == 0x20: // sraw
		c.setReg(d, uint64(int32(s1)>>shamt))
	default:
		return ExcIllegalInstruction
	}
	return nil
}

func (c *CPU) execBranch(inst uint32) error {
	s1, s2 := c.reg(rs1(inst)), c.reg(rs2(inst))
	taken := false
	switch funct3(inst) {
	case 0x0: // beq
		taken = s1 == s2
	case 0x1: // bne
		taken = s1 != s2
	case 0x4: // blt
		taken = int64(s1) < int64(s2)
	case 0x5: // bge
		taken = int64(s1) >= int64(s2)
	case 0x6: // bltu
		taken = s1 < s2
	case 0x7: // bgeu
		taken = s1 >= s2
	default:
		return ExcIllegalInstruction
	}
	if taken {
		c.PC = c.PC + immB(inst) - 4
	}
	return nil
}

func (c *CPU) execJalr(inst uint32) error {
	t := c.PC
	c.PC = (c.reg(rs1(inst)) + immI(inst)) &^ 1
	c.setReg(rd(inst), t)
	return nil
}

func boolToReg(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
