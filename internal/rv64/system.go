package rv64

// execSystem handles opcode 0x73: ecall/ebreak/sret/mret/sfence.vma and
// the six CSR access instructions.
func (c *CPU) execSystem(inst uint32) error {
	csrAddr := int((inst >> 20) & 0xfff)
	d, s1 := rd(inst), rs1(inst)

	switch funct3(inst) {
	case 0x0:
		switch {
		case rs2(inst) == 0x0 && funct7(inst) == 0x0: // ecall
			switch c.Mode {
			case User:
				return ExcEnvironmentCallFromUMode
			case Supervisor:
				return ExcEnvironmentCallFromSMode
			default:
				return ExcEnvironmentCallFromMMode
			}
		case rs2(inst) == 0x1 && funct7(inst) == 0x0: // ebreak
			return ExcBreakpoint
		case rs2(inst) == 0x2 && funct7(inst) == 0x8: // sret
			c.execSret()
			return nil
		case rs2(inst) == 0x2 && funct7(inst) == 0x18: // mret
			c.execMret()
			return nil
		case funct7(inst) == 0x9: // sfence.vma: no-op, no MMU modeled
			return nil
		default:
			return ExcIllegalInstruction
		}
	case 0x1: // csrrw
		t := c.CSRs.Read(csrAddr)
		c.CSRs.Write(csrAddr, c.reg(s1))
		c.setReg(d, t)
	case 0x2: // csrrs
		t := c.CSRs.Read(csrAddr)
		c.CSRs.Write(csrAddr, t|c.reg(s1))
		c.setReg(d, t)
	case 0x3: // csrrc
		t := c.CSRs.Read(csrAddr)
		c.CSRs.Write(csrAddr, t&^c.reg(s1))
		c.setReg(d, t)
	case 0x5: // csrrwi
		zimm := uint64(s1)
		c.setReg(d, c.CSRs.Read(csrAddr))
		c.CSRs.Write(csrAddr, zimm)
	case 0x6: // csrrsi
		zimm := uint64(s1)
		t := c.CSRs.Read(csrAddr)
		c.CSRs.Write(csrAddr, t|zimm)
		c.setReg(d, t)
	case 0x7: // csrrci
		zimm := uint64(s1)
		t := c.CSRs.Read(csrAddr)
		c.CSRs.Write(csrAddr, t&^zimm)
		c.setReg(d, t)
	default:
		return ExcIllegalInstruction
	}
	return nil
}

// execSret returns from a supervisor-mode trap handler: restore PC from
// sepc, restore the privilege mode from SPP, roll SIE back from SPIE.
func (c *CPU) execSret() {
	c.PC = c.CSRs.Read(Sepc)
	sstatus := c.CSRs.Read(Sstatus)

	if (sstatus>>8)&1 == 1 {
		c.Mode = Supervisor
	} else {
		c.Mode = User
	}

	if (sstatus>>5)&1 == 1 {
		sstatus |= 1 << 1
	} else {
		sstatus &^= 1 << 1
	}
	sstatus |= 1 << 5
	sstatus &^= 1 << 8
	c.CSRs.Write(Sstatus, sstatus)
}

// execMret returns from a machine-mode trap handler: restore PC from mepc,
// restore the privilege mode from MPP, roll MIE back from MPIE.
//
// MPP decode uses 3=>Machine, 1=>Supervisor, else=>User — the corrected
// table. The reference core this was ported from decodes 2=>Machine.
// Deliver never writes 2 into MPP; a guest CSR write still can, and that
// value decodes as User here.
func (c *CPU) execMret() {
	c.PC = c.CSRs.Read(Mepc)
	mstatus := c.CSRs.Read(Mstatus)

	switch (mstatus >> 11) & 0b11 {
	case 3:
		c.Mode = Machine
	case 1:
		c.Mode = Supervisor
	default:
		c.Mode = User
	}

	if (mstatus>>7)&1 == 1 {
		mstatus |= 1 << 3
	} else {
		mstatus &^= 1 << 3
	}
	mstatus |= 1 << 7
	mstatus &^= 0b11 << 11
	c.CSRs.Write(Mstatus, mstatus)
}
