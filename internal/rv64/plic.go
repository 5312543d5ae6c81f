package rv64

// PLIC window: platform-level interrupt controller, routing external
// interrupt sources (UART, VirtIO) to the hart's S-mode external interrupt
// line.
const (
	PlicBase uint64 = 0x0c00_0000
	PlicSize uint64 = 0x0400_0000

	// PlicSCLAIM is the absolute address of the context-1 (S-mode)
	// claim/complete register, written by the driver loop's interrupt
	// check with the pending IRQ number and read by the trap handler to
	// acknowledge it.
	PlicSCLAIM uint64 = PlicBase + 0x20_1004

	plicPriorityBase = 0x0000
	plicPendingBase  = 0x1000
	plicEnableBase   = 0x2000
	plicEnableSize   = 0x80
	plicClaimOffset  = 0x20_1004
)

const plicNumSources = 32

// PLIC models the subset of the platform-level interrupt controller needed
// to route the UART and VirtIO interrupt lines to context 1 (S-mode): a
// priority array, a pending-bit vector, one enable-bit vector and the
// claim/complete register.
type PLIC struct {
	priority [plicNumSources]uint32
	pending  uint32
	enable   uint32
	claimed  uint32
}

func NewPLIC() *PLIC { return &PLIC{} }

// SetPending marks irq as asserted by its source device.
func (p *PLIC) SetPending(irq uint32) {
	p.pending |= 1 << irq
}

// IsPending reports whether irq is both pending and enabled for context 1.
func (p *PLIC) IsPending(irq uint32) bool {
	return p.pending&p.enable&(1<<irq) != 0
}

func (p *PLIC) Load(addr uint64, size uint8) (uint64, error) {
	off := addr - PlicBase
	switch {
	case off == plicClaimOffset && size == 32:
		// Claim the lowest-numbered pending enabled source and clear it;
		// priorities are not consulted.
		for irq := uint32(0); irq < plicNumSources; irq++ {
			if p.IsPending(irq) {
				p.pending &^= 1 << irq
				p.claimed = irq
				return uint64(irq), nil
			}
		}
		return 0, nil
	case off == plicEnableBase && size == 32:
		return uint64(p.enable), nil
	case off >= plicPriorityBase && off < plicPriorityBase+uint64(plicNumSources)*4 && size == 32:
		return uint64(p.priority[off/4]), nil
	case off >= plicPendingBase && off < plicPendingBase+4 && size == 32:
		return uint64(p.pending), nil
	default:
		return 0, nil
	}
}

func (p *PLIC) Store(addr uint64, size uint8, value uint64) error {
	off := addr - PlicBase
	switch {
	case off == plicClaimOffset && size == 32:
		// Complete: software acknowledges irq, no further state change.
	case off == plicEnableBase && size == 32:
		p.enable = uint32(value)
	case off >= plicPriorityBase && off < plicPriorityBase+uint64(plicNumSources)*4 && size == 32:
		p.priority[off/4] = uint32(value)
	}
	return nil
}
