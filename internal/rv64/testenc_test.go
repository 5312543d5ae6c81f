package rv64

// Small instruction encoders used only by tests to assemble programs
// directly from field values, mirroring the RV64 base instruction formats
// decode.go extracts from.

func encR(funct7, rs2, rs1, funct3, rd, opcode uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encI(imm12 int32, rs1, funct3, rd, opcode uint32) uint32 {
	return (uint32(imm12)&0xfff)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encS(imm int32, rs2, rs1, funct3, opcode uint32) uint32 {
	u := uint32(imm)
	return (u>>5&0x7f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u&0x1f)<<7 | opcode
}

func encB(imm int32, rs2, rs1, funct3, opcode uint32) uint32 {
	u := uint32(imm)
	return (u>>12&1)<<31 | (u>>5&0x3f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u>>1&0xf)<<8 | (u>>11&1)<<7 | opcode
}

func encU(imm20 uint32, rd, opcode uint32) uint32 {
	return (imm20 & 0xfffff000) | rd<<7 | opcode
}

func encJ(imm int32, rd, opcode uint32) uint32 {
	u := uint32(imm)
	return (u>>20&1)<<31 | (u>>1&0x3ff)<<21 | (u>>11&1)<<20 | (u>>12&0xff)<<12 | rd<<7 | opcode
}

func addi(rd, rs1 uint32, imm int32) uint32 { return encI(imm, rs1, 0x0, rd, 0x13) }
func add_(rd, rs1, rs2 uint32) uint32       { return encR(0x00, rs2, rs1, 0x0, rd, 0x33) }
func lui(rd uint32, imm20 uint32) uint32    { return encU(imm20, rd, 0x37) }
func auipc(rd uint32, imm20 uint32) uint32  { return encU(imm20, rd, 0x17) }
func jal(rd uint32, imm int32) uint32       { return encJ(imm, rd, 0x6f) }
func sw(rs2, rs1 uint32, imm int32) uint32  { return encS(imm, rs2, rs1, 0x2, 0x23) }
func lw(rd, rs1 uint32, imm int32) uint32   { return encI(imm, rs1, 0x2, rd, 0x03) }
func beq(rs1, rs2 uint32, imm int32) uint32 { return encB(imm, rs2, rs1, 0x0, 0x63) }
func ecall() uint32                         { return encI(0x000, 0, 0x0, 0, 0x73) }
func csrrw(rd, rs1 uint32, csr int32) uint32 { return encI(csr, rs1, 0x1, rd, 0x73) }
