package rv64

const NumRegisters = 32

// CPU is a single RV64I+A+Zicsr hart.
type CPU struct {
	regs [NumRegisters]uint64
	PC   uint64
	Bus  *Bus
	CSRs CSRFile
	Mode Mode
}

// NewCPU constructs a hart in M-mode with the stack pointer (x2) set to
// the top of the memory window and the program counter at the base of
// memory, where the loaded image begins executing.
func NewCPU(bus *Bus) *CPU {
	c := &CPU{
		Bus:  bus,
		PC:   MemoryBase,
		Mode: Machine,
	}
	c.regs[2] = MemoryBase + MemorySize
	return c
}

// reg reads integer register idx; x0 always reads as zero.
func (c *CPU) reg(idx uint32) uint64 {
	return c.regs[idx]
}

// setReg writes integer register idx; writes to x0 are discarded.
func (c *CPU) setReg(idx uint32, val uint64) {
	if idx == 0 {
		return
	}
	c.regs[idx] = val
}

// Registers returns a copy of the integer register file, x0 included.
func (c *CPU) Registers() [NumRegisters]uint64 {
	return c.regs
}

// SetRegisters overwrites the integer register file, used by tests to
// construct exact preconditions. x0 is forced back to zero.
func (c *CPU) SetRegisters(regs [NumRegisters]uint64) {
	c.regs = regs
	c.regs[0] = 0
}

// fetch reads the 32-bit instruction word at PC, mapping any bus fault to
// InstructionAccessFault.
func (c *CPU) fetch() (uint32, error) {
	v, err := c.Bus.Load(c.PC, 32)
	if err != nil {
		return 0, ExcInstructionAccessFault
	}
	return uint32(v), nil
}

// CheckPendingInterrupt implements the privileged-ISA interrupt-enable
// gating and priority order (MEI > MSI > MTI > SEI > SSI > STI), polling
// the UART and PLIC for an external condition before evaluating mip/mie.
// Returns nil if no interrupt is currently deliverable.
func (c *CPU) CheckPendingInterrupt() *Interrupt {
	switch c.Mode {
	case Machine:
		if (c.CSRs.Read(Mstatus)>>3)&1 == 0 {
			return nil
		}
	case Supervisor:
		if (c.CSRs.Read(Sstatus)>>1)&1 == 0 {
			return nil
		}
	}

	if c.Bus.UART.IsInterrupting() {
		c.Bus.PLIC.SetPending(UARTIRQ)
		_ = c.Bus.Store(PlicSCLAIM, 32, uint64(UARTIRQ))
		c.CSRs.Write(Mip, c.CSRs.Read(Mip)|MipSEIP)
	}

	// CLINT wires MTIP/MSIP directly into the hart rather than through a
	// software CSR write, the way real hardware does it.
	mip := c.CSRs.Read(Mip)
	if c.Bus.CLINT.PendingTimer() {
		mip |= MipMTIP
	}
	if c.Bus.CLINT.PendingSoftware() {
		mip |= MipMSIP
	}
	c.CSRs.Write(Mip, mip)

	pending := c.CSRs.Read(Mie) & c.CSRs.Read(Mip)

	clearAndReturn := func(bit uint64, irq Interrupt) *Interrupt {
		c.CSRs.Write(Mip, c.CSRs.Read(Mip)&^bit)
		return &irq
	}

	switch {
	case pending&MipMEIP != 0:
		return clearAndReturn(MipMEIP, IntMachineExternal)
	case pending&MipMSIP != 0:
		return clearAndReturn(MipMSIP, IntMachineSoftware)
	case pending&MipMTIP != 0:
		return clearAndReturn(MipMTIP, IntMachineTimer)
	case pending&MipSEIP != 0:
		return clearAndReturn(MipSEIP, IntSupervisorExternal)
	case pending&MipSSIP != 0:
		return clearAndReturn(MipSSIP, IntSupervisorSoftware)
	case pending&MipSTIP != 0:
		return clearAndReturn(MipSTIP, IntSupervisorTimer)
	default:
		return nil
	}
}
