package rv64

// Bus decodes a flat 64-bit address space into five disjoint windows:
// CLINT, PLIC, UART, VirtIO and main memory. An address outside all five
// faults.
type Bus struct {
	CLINT  *CLINT
	PLIC   *PLIC
	UART   *UART
	VirtIO *VirtIO
	Memory *Memory
}

// NewBus constructs a bus with a freshly loaded memory image and cold
// peripherals.
func NewBus(image []byte) *Bus {
	return &Bus{
		CLINT:  NewCLINT(),
		PLIC:   NewPLIC(),
		UART:   NewUART(),
		VirtIO: NewVirtIO(),
		Memory: NewMemory(image),
	}
}

func (b *Bus) Load(addr uint64, size uint8) (uint64, error) {
	switch {
	case addr >= ClintBase && addr < ClintBase+ClintSize:
		return b.CLINT.Load(addr, size)
	case addr >= PlicBase && addr < PlicBase+PlicSize:
		return b.PLIC.Load(addr, size)
	case addr >= UARTBase && addr < UARTBase+UARTSize:
		return b.UART.Load(addr, size)
	case addr >= VirtIOBase && addr < VirtIOBase+VirtIOSize:
		return b.VirtIO.Load(addr, size)
	case addr >= MemoryBase && addr < MemoryBase+MemorySize:
		return b.Memory.Load(addr, size)
	default:
		return 0, ExcLoadAccessFault
	}
}

func (b *Bus) Store(addr uint64, size uint8, value uint64) error {
	switch {
	case addr >= ClintBase && addr < ClintBase+ClintSize:
		return b.CLINT.Store(addr, size, value)
	case addr >= PlicBase && addr < PlicBase+PlicSize:
		return b.PLIC.Store(addr, size, value)
	case addr >= UARTBase && addr < UARTBase+UARTSize:
		return b.UART.Store(addr, size, value)
	case addr >= VirtIOBase && addr < VirtIOBase+VirtIOSize:
		return b.VirtIO.Store(addr, size, value)
	case addr >= MemoryBase && addr < MemoryBase+MemorySize:
		return b.Memory.Store(addr, size, value)
	default:
		return ExcStoreAMOAccessFault
	}
}
