package rv64

// CSR addresses, a 12-bit encoding space reserved by the ISA for up to
// 4096 control and status registers.
const NumCSRs = 4096

const (
	// Machine-level CSRs.
	Mhartid  = 0xf14
	Mstatus  = 0x300
	Medeleg  = 0x302
	Mideleg  = 0x303
	Mie      = 0x304
	Mtvec    = 0x305
	Mcounteren = 0x306
	Mscratch = 0x340
	Mepc     = 0x341
	Mcause   = 0x342
	Mtval    = 0x343
	Mip      = 0x344

	// Supervisor-level CSRs.
	Sstatus  = 0x100
	Sie      = 0x104
	Stvec    = 0x105
	Sscratch = 0x140
	Sepc     = 0x141
	Scause   = 0x142
	Stval    = 0x143
	Sip      = 0x144
	Satp     = 0x180
)

// mip/mie bit positions.
const (
	MipSSIP uint64 = 1 << 1
	MipMSIP uint64 = 1 << 3
	MipSTIP uint64 = 1 << 5
	MipMTIP uint64 = 1 << 7
	MipSEIP uint64 = 1 << 9
	MipMEIP uint64 = 1 << 11
)

// CSRFile is the hart's 4096-entry control/status register file.
//
// There is no privilege or read-only enforcement on access, by design:
// any csrrw/csrrs/csrrc/csrr*i instruction can read or write any address,
// matching the reference core this was built from.
type CSRFile struct {
	regs [NumCSRs]uint64
}

func (c *CSRFile) Read(addr int) uint64 {
	return c.regs[addr]
}

func (c *CSRFile) Write(addr int, value uint64) {
	c.regs[addr] = value
}
