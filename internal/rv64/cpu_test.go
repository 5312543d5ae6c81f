package rv64

import (
	"encoding/binary"
	"testing"
)

func assemble(t *testing.T, insts []uint32) []byte {
	t.Helper()
	buf := make([]byte, len(insts)*4)
	for i, inst := range insts {
		binary.LittleEndian.PutUint32(buf[i*4:], inst)
	}
	return buf
}

func newTestMachine(t *testing.T, insts []uint32) (*Driver, *CPU) {
	t.Helper()
	bus := NewBus(assemble(t, insts))
	cpu := NewCPU(bus)
	return NewMachine(cpu), cpu
}

func TestAddiChain(t *testing.T) {
	m, cpu := newTestMachine(t, []uint32{
		addi(1, 0, 5),
		addi(2, 1, 10),
	})
	m.MaxSteps = 2
	if err := m.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	regs := cpu.Registers()
	if regs[1] != 5 {
		t.Errorf("x1 = %d, want 5", regs[1])
	}
	if regs[2] != 15 {
		t.Errorf("x2 = %d, want 15", regs[2])
	}
	if regs[0] != 0 {
		t.Errorf("x0 = %d, want 0", regs[0])
	}
}

func TestLuiAuipcJal(t *testing.T) {
	m, cpu := newTestMachine(t, []uint32{
		lui(1, 0x10000),     // x1 = 0x10000
		auipc(2, 0),         // x2 = address of this instruction
		jal(3, 8),           // x3 = return addr, skip next instruction
		addi(4, 0, 99),      // skipped
		addi(5, 0, 1),       // jal target
	})
	m.MaxSteps = 4
	if err := m.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	regs := cpu.Registers()
	if regs[1] != 0x10000 {
		t.Errorf("x1 = %#x, want 0x10000", regs[1])
	}
	if regs[2] != MemoryBase+4 {
		t.Errorf("x2 = %#x, want %#x", regs[2], MemoryBase+4)
	}
	if regs[3] != MemoryBase+12 {
		t.Errorf("x3 = %#x, want %#x", regs[3], MemoryBase+12)
	}
	if regs[4] != 0 {
		t.Errorf("x4 = %d, want 0 (instruction should have been skipped)", regs[4])
	}
	if regs[5] != 1 {
		t.Errorf("x5 = %d, want 1", regs[5])
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	m, cpu := newTestMachine(t, []uint32{
		auipc(1, 0), // x1 = MemoryBase (lui would sign-extend 0x80000000)
		addi(2, 0, 123),
		sw(2, 1, 0),
		lw(3, 1, 0),
	})
	m.MaxSteps = 4
	if err := m.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := cpu.Registers()[3]; got != 123 {
		t.Errorf("x3 = %d, want 123", got)
	}
}

func TestBranchTaken(t *testing.T) {
	m, cpu := newTestMachine(t, []uint32{
		addi(1, 0, 5),
		addi(2, 0, 5),
		beq(1, 2, 8), // taken: skip next
		addi(3, 0, 1),
		addi(4, 0, 2),
	})
	m.MaxSteps = 4
	if err := m.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	regs := cpu.Registers()
	if regs[3] != 0 {
		t.Errorf("x3 = %d, want 0 (branch should have skipped it)", regs[3])
	}
	if regs[4] != 2 {
		t.Errorf("x4 = %d, want 2", regs[4])
	}
}

func TestBranchNotTaken(t *testing.T) {
	m, cpu := newTestMachine(t, []uint32{
		addi(1, 0, 5),
		addi(2, 0, 6),
		beq(1, 2, 8), // not taken
		addi(3, 0, 1),
		addi(4, 0, 2),
	})
	m.MaxSteps = 5
	if err := m.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	regs := cpu.Registers()
	if regs[3] != 1 {
		t.Errorf("x3 = %d, want 1 (branch should not have skipped it)", regs[3])
	}
	if regs[4] != 2 {
		t.Errorf("x4 = %d, want 2", regs[4])
	}
}

func TestEcallFromUModeNoDelegation(t *testing.T) {
	bus := NewBus(nil)
	cpu := NewCPU(bus)
	cpu.Mode = User
	cpu.CSRs.Write(Mtvec, 0x8000_0100)
	cpu.PC = MemoryBase + 4

	err := cpu.Execute(ecall())
	exc, ok := err.(Exception)
	if !ok || exc != ExcEnvironmentCallFromUMode {
		t.Fatalf("Execute(ecall) = %v, want ExcEnvironmentCallFromUMode", err)
	}

	cpu.Deliver(exc)
	if cpu.Mode != Machine {
		t.Errorf("mode = %s, want M (undelegated trap must land in M-mode)", cpu.Mode)
	}
	if got := cpu.CSRs.Read(Mcause); got != 8 {
		t.Errorf("mcause = %d, want 8", got)
	}
	if cpu.PC != 0x8000_0100 {
		t.Errorf("pc = %#x, want mtvec", cpu.PC)
	}
	if got := cpu.CSRs.Read(Mepc); got != MemoryBase {
		t.Errorf("mepc = %#x, want %#x", got, MemoryBase)
	}
}

func TestEcallFromUModeDelegated(t *testing.T) {
	bus := NewBus(nil)
	cpu := NewCPU(bus)
	cpu.Mode = User
	cpu.CSRs.Write(Medeleg, 1<<8)
	cpu.CSRs.Write(Stvec, 0x8000_0200)
	cpu.PC = MemoryBase + 4

	err := cpu.Execute(ecall())
	exc := err.(Exception)
	cpu.Deliver(exc)

	if cpu.Mode != Supervisor {
		t.Errorf("mode = %s, want S (delegated trap must land in S-mode)", cpu.Mode)
	}
	if got := cpu.CSRs.Read(Scause); got != 8 {
		t.Errorf("scause = %d, want 8", got)
	}
	if cpu.PC != 0x8000_0200 {
		t.Errorf("pc = %#x, want stvec", cpu.PC)
	}
}

func TestUnmatchedSubcaseIsIllegalInstruction(t *testing.T) {
	bus := NewBus(nil)
	cpu := NewCPU(bus)
	// funct3=0x5, funct7>>1 neither 0x00 nor 0x10: an invalid shift-immediate encoding.
	inst := encI(0, 0, 0x5, 1, 0x13) | (0x3f << 25)
	if err := cpu.Execute(inst); err != ExcIllegalInstruction {
		t.Errorf("Execute(invalid shift) = %v, want ExcIllegalInstruction", err)
	}
}

func TestRegisterZeroAlwaysReadsZero(t *testing.T) {
	bus := NewBus(nil)
	cpu := NewCPU(bus)
	if err := cpu.Execute(addi(0, 0, 42)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if cpu.Registers()[0] != 0 {
		t.Errorf("x0 = %d, want 0 (writes to x0 must be discarded)", cpu.Registers()[0])
	}
}
