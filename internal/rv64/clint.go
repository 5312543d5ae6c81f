package rv64

import "fmt"

// CLINT window: core-local interruptor, generating the per-hart software
// and timer interrupts.
const (
	ClintBase uint64 = 0x0200_0000
	ClintSize uint64 = 0x10000

	clintMSIP     = 0x0000
	clintMTimeCmp = 0x4000
	clintMTime    = 0xbff8
)

// CLINT models a single-hart core-local interruptor: MSIP (machine
// software interrupt pending), MTIMECMP and a free-running MTIME counter.
type CLINT struct {
	msip     uint32
	mtimecmp uint64
	mtime    uint64
}

func NewCLINT() *CLINT { return &CLINT{} }

// Tick advances the free-running timer by one; called once per driver-loop
// step, including steps that deliver a trap or interrupt.
func (c *CLINT) Tick() { c.mtime++ }

// PendingTimer reports whether mtime has reached mtimecmp.
func (c *CLINT) PendingTimer() bool { return c.mtime >= c.mtimecmp }

// PendingSoftware reports whether a software interrupt has been posted.
func (c *CLINT) PendingSoftware() bool { return c.msip&1 != 0 }

func (c *CLINT) Load(addr uint64, size uint8) (uint64, error) {
	off := addr - ClintBase
	switch {
	case off == clintMSIP && size == 32:
		return uint64(c.msip), nil
	case off == clintMTimeCmp && size == 64:
		return c.mtimecmp, nil
	case off == clintMTime && size == 64:
		return c.mtime, nil
	default:
		return 0, fmt.Errorf("rv64: clint: invalid load at offset %#x size %d", off, size)
	}
}

func (c *CLINT) Store(addr uint64, size uint8, value uint64) error {
	off := addr - ClintBase
	switch {
	case off == clintMSIP && size == 32:
		c.msip = uint32(value)
	case off == clintMTimeCmp && size == 64:
		c.mtimecmp = value
	case off == clintMTime && size == 64:
		c.mtime = value
	default:
		return fmt.Errorf("rv64: clint: invalid store at offset %#x size %d", off, size)
	}
	return nil
}
