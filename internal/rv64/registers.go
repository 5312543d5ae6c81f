package rv64

import (
	"fmt"
	"io"
)

var abiNames = [NumRegisters]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5", "a6",
	"a7", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9",
	"s10", "s11", "t3", "t4", "t5", "t6",
}

// DumpRegisters writes all 32 integer registers, four per line, with ABI
// names, to w.
func (c *CPU) DumpRegisters(w io.Writer) {
	for i := 0; i < NumRegisters; i += 4 {
		fmt.Fprintf(w, "x%02d(%4s)=%#018x x%02d(%4s)=%#018x x%02d(%4s)=%#018x x%02d(%4s)=%#018x\n",
			i, abiNames[i], c.regs[i],
			i+1, abiNames[i+1], c.regs[i+1],
			i+2, abiNames[i+2], c.regs[i+2],
			i+3, abiNames[i+3], c.regs[i+3],
		)
	}
}

// DumpCSRs writes the machine- and supervisor-level trap CSRs to w.
func (c *CPU) DumpCSRs(w io.Writer) {
	fmt.Fprintf(w, "mstatus=%#018x mtvec=%#018x mepc=%#018x mcause=%#018x\n",
		c.CSRs.Read(Mstatus), c.CSRs.Read(Mtvec), c.CSRs.Read(Mepc), c.CSRs.Read(Mcause))
	fmt.Fprintf(w, "sstatus=%#018x stvec=%#018x sepc=%#018x scause=%#018x\n",
		c.CSRs.Read(Sstatus), c.CSRs.Read(Stvec), c.CSRs.Read(Sepc), c.CSRs.Read(Scause))
}
