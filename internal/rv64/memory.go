package rv64

import (
	"encoding/binary"
	"fmt"
)

// MemoryBase is the guest-physical address the flat RAM window starts at,
// matching the QEMU virt machine convention the reference core targets.
const MemoryBase uint64 = 0x8000_0000

// MemorySize is the default backing-store size: 128 MiB.
const MemorySize uint64 = 1024 * 1024 * 128

// Memory is a flat little-endian byte-addressable RAM window.
type Memory struct {
	data []byte
}

// NewMemory allocates a zeroed MemorySize-byte window and copies image at
// offset 0 (i.e. at MemoryBase once mapped onto the bus).
func NewMemory(image []byte) *Memory {
	m := &Memory{data: make([]byte, MemorySize)}
	copy(m.data, image)
	return m
}

func (m *Memory) Load(addr uint64, size uint8) (uint64, error) {
	off := addr - MemoryBase
	switch size {
	case 8:
		return uint64(m.data[off]), nil
	case 16:
		return uint64(binary.LittleEndian.Uint16(m.data[off : off+2])), nil
	case 32:
		return uint64(binary.LittleEndian.Uint32(m.data[off : off+4])), nil
	case 64:
		return binary.LittleEndian.Uint64(m.data[off : off+8]), nil
	default:
		return 0, fmt.Errorf("rv64: memory: invalid load size %d", size)
	}
}

func (m *Memory) Store(addr uint64, size uint8, value uint64) error {
	off := addr - MemoryBase
	switch size {
	case 8:
		m.data[off] = byte(value)
	case 16:
		binary.LittleEndian.PutUint16(m.data[off:off+2], uint16(value))
	case 32:
		binary.LittleEndian.PutUint32(m.data[off:off+4], uint32(value))
	case 64:
		binary.LittleEndian.PutUint64(m.data[off:off+8], value)
	default:
		return fmt.Errorf("rv64: memory: invalid store size %d", size)
	}
	return nil
}
