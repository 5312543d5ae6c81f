package rv64

import "log"

// Exception is a synchronous trap cause, raised by the instruction that
// hit it and delivered before the next instruction is fetched.
type Exception uint64

const (
	ExcInstructionAddressMisaligned Exception = 0
	ExcInstructionAccessFault       Exception = 1
	ExcIllegalInstruction           Exception = 2
	ExcBreakpoint                   Exception = 3
	ExcLoadAddressMisaligned        Exception = 4
	ExcLoadAccessFault              Exception = 5
	ExcStoreAMOAddressMisaligned    Exception = 6
	ExcStoreAMOAccessFault          Exception = 7
	ExcEnvironmentCallFromUMode     Exception = 8
	ExcEnvironmentCallFromSMode     Exception = 9
	ExcEnvironmentCallFromMMode     Exception = 11
	ExcInstructionPageFault         Exception = 12
	ExcLoadPageFault                Exception = 13
	ExcStoreAMOPageFault            Exception = 15
)

func (e Exception) Error() string {
	switch e {
	case ExcInstructionAddressMisaligned:
		return "instruction address misaligned"
	case ExcInstructionAccessFault:
		return "instruction access fault"
	case ExcIllegalInstruction:
		return "illegal instruction"
	case ExcBreakpoint:
		return "breakpoint"
	case ExcLoadAddressMisaligned:
		return "load address misaligned"
	case ExcLoadAccessFault:
		return "load access fault"
	case ExcStoreAMOAddressMisaligned:
		return "store/amo address misaligned"
	case ExcStoreAMOAccessFault:
		return "store/amo access fault"
	case ExcEnvironmentCallFromUMode:
		return "environment call from u-mode"
	case ExcEnvironmentCallFromSMode:
		return "environment call from s-mode"
	case ExcEnvironmentCallFromMMode:
		return "environment call from m-mode"
	case ExcInstructionPageFault:
		return "instruction page fault"
	case ExcLoadPageFault:
		return "load page fault"
	case ExcStoreAMOPageFault:
		return "store/amo page fault"
	default:
		return "unknown exception"
	}
}

// code is the numeric cause value written to *cause on trap entry.
func (e Exception) code() uint64 { return uint64(e) }

// Interrupt is an asynchronous trap cause, checked once before each fetch.
type Interrupt uint64

const (
	IntSupervisorSoftware Interrupt = 1
	IntMachineSoftware    Interrupt = 3
	IntSupervisorTimer    Interrupt = 5
	IntMachineTimer       Interrupt = 7
	IntSupervisorExternal Interrupt = 9
	IntMachineExternal    Interrupt = 11
)

func (i Interrupt) Error() string {
	switch i {
	case IntSupervisorSoftware:
		return "supervisor software interrupt"
	case IntMachineSoftware:
		return "machine software interrupt"
	case IntSupervisorTimer:
		return "supervisor timer interrupt"
	case IntMachineTimer:
		return "machine timer interrupt"
	case IntSupervisorExternal:
		return "supervisor external interrupt"
	case IntMachineExternal:
		return "machine external interrupt"
	default:
		return "unknown interrupt"
	}
}

// code is the numeric cause value for an interrupt: the interrupt bit
// (bit 63 of *cause) set, with the low bits holding the same code used for
// the matching mip/mie bit position.
func (i Interrupt) code() uint64 { return uint64(i) | (1 << 63) }

// Trace, when true, makes trap delivery log one line per trap through
// log.Printf (Step logs one more line naming each interrupt). false by
// default; the front-end sets it under --trace.
var Trace = false

// Deliver performs synchronous exception delivery per the privileged ISA:
// compute the faulting PC, decide S-mode vs M-mode via medeleg, and update
// mode/PC/epc/cause/tval/*status accordingly.
func (c *CPU) Deliver(exc Exception) {
	c.deliver(exc.code(), false)
}

// DeliverInterrupt performs asynchronous interrupt delivery. It mirrors
// Deliver but never subtracts 4 from the PC (an interrupt is taken between
// instructions, not from a faulting one). Delegation uses the same medeleg
// bit test as Deliver, applied to the interrupt's low 6 bits; mideleg is
// not consulted.
func (c *CPU) DeliverInterrupt(irq Interrupt) {
	c.deliver(irq.code(), true)
}

func (c *CPU) deliver(cause uint64, isInterrupt bool) {
	exceptionPC := c.PC
	if !isInterrupt {
		exceptionPC = c.PC - 4
	}
	previousMode := c.Mode

	if Trace {
		log.Printf("rv64: trap cause=%#x pc=%#x mode=%s", cause, exceptionPC, previousMode)
	}

	delegated := previousMode <= Supervisor && (c.CSRs.Read(Medeleg)>>(cause&0x3f))&1 != 0

	if delegated {
		c.Mode = Supervisor
		c.PC = c.CSRs.Read(Stvec) &^ 1
		c.CSRs.Write(Sepc, exceptionPC&^1)
		c.CSRs.Write(Scause, cause)
		c.CSRs.Write(Stval, 0)

		sstatus := c.CSRs.Read(Sstatus)
		if (sstatus>>1)&1 == 1 {
			sstatus |= 1 << 5
		} else {
			sstatus &^= 1 << 5
		}
		sstatus &^= 1 << 1
		if previousMode == User {
			sstatus &^= 1 << 8
		} else {
			sstatus |= 1 << 8
		}
		c.CSRs.Write(Sstatus, sstatus)
	} else {
		c.Mode = Machine
		c.PC = c.CSRs.Read(Mtvec) &^ 1
		c.CSRs.Write(Mepc, exceptionPC&^1)
		c.CSRs.Write(Mcause, cause)
		c.CSRs.Write(Mtval, 0)

		mstatus := c.CSRs.Read(Mstatus)
		if (mstatus>>3)&1 == 1 {
			mstatus |= 1 << 7
		} else {
			mstatus &^= 1 << 7
		}
		mstatus &^= 1 << 3
		mstatus &^= 0b11 << 11
		mstatus |= uint64(previousMode) << 11
		c.CSRs.Write(Mstatus, mstatus)
	}
}
