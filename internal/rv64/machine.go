package rv64

import (
	"errors"
	"log"
)

// ErrHalted is returned by Step (and surfaces through Run as a clean stop,
// not a failure) when pc reaches 0 — the guest's "halt" idiom and, per the
// core's termination invariant, the one stop condition the trap-delivery
// redesign doesn't already subsume: a fetch or execute fault is now
// delivered as a trap and the loop keeps going, so pc == 0 is the only
// case left where the loop must not try to fetch again.
var ErrHalted = errors.New("rv64: halted (pc == 0)")

// Driver wraps a CPU with the fetch/check-interrupt/execute/trap driver
// loop. MaxSteps bounds runaway test programs; zero means unbounded.
type Driver struct {
	CPU      *CPU
	MaxSteps uint64
}

// NewMachine constructs a driver for cpu with no step limit.
func NewMachine(cpu *CPU) *Driver {
	return &Driver{CPU: cpu}
}

// Run executes instructions until pc == 0 (reported as a clean stop, not
// an error), until MaxSteps is reached, or until Step returns an error
// other than ErrHalted.
//
// A delivered trap does not stop the loop: it redirects PC/mode/CSR state
// to the matching vector and execution continues from there, exactly as a
// real hart would. Fetch and execute faults are always delivered as traps
// this way, so in practice ErrHalted is the only stop condition Step ever
// produces.
func (m *Driver) Run() error {
	for steps := uint64(0); m.MaxSteps == 0 || steps < m.MaxSteps; steps++ {
		if err := m.Step(); err != nil {
			if errors.Is(err, ErrHalted) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Step runs one cycle, delivering at most one trap: if an interrupt is
// pending it is delivered and nothing is fetched; otherwise one instruction
// is fetched and executed. Returns ErrHalted without touching the bus if
// pc == 0.
func (m *Driver) Step() error {
	cpu := m.CPU

	if cpu.PC == 0 {
		return ErrHalted
	}

	if irq := cpu.CheckPendingInterrupt(); irq != nil {
		if Trace {
			log.Printf("rv64: interrupt %s at pc=%#x", irq.Error(), cpu.PC)
		}
		cpu.DeliverInterrupt(*irq)
		cpu.Bus.CLINT.Tick()
		return nil
	}

	inst, err := cpu.fetch()
	if err != nil {
		cpu.Deliver(err.(Exception))
		cpu.Bus.CLINT.Tick()
		return nil
	}

	cpu.PC += 4

	if err := cpu.Execute(inst); err != nil {
		exc, ok := err.(Exception)
		if !ok {
			return err
		}
		cpu.Deliver(exc)
	}

	cpu.Bus.CLINT.Tick()
	return nil
}
