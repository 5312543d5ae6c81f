package rv64

// Field extraction and immediate decoding for the RV64I/A/Zicsr base
// instruction formats (R/I/S/B/U/J).

func opcode(inst uint32) uint32 { return inst & 0x7f }
func rd(inst uint32) uint32     { return (inst >> 7) & 0x1f }
func funct3(inst uint32) uint32 { return (inst >> 12) & 0x7 }
func rs1(inst uint32) uint32    { return (inst >> 15) & 0x1f }
func rs2(inst uint32) uint32    { return (inst >> 20) & 0x1f }
func funct7(inst uint32) uint32 { return (inst >> 25) & 0x7f }

// immI decodes the sign-extended 12-bit I-type immediate: inst[31:20].
func immI(inst uint32) uint64 {
	return uint64(int64(int32(inst)) >> 20)
}

// immS decodes the sign-extended 12-bit S-type immediate:
// inst[31:25]=imm[11:5], inst[11:7]=imm[4:0].
func immS(inst uint32) uint64 {
	hi := int64(int32(inst&0xfe000000)) >> 20
	lo := int64((inst >> 7) & 0x1f)
	return uint64(hi | lo)
}

// immB decodes the sign-extended 13-bit B-type immediate (branch offset,
// bit 0 always zero): inst[31]=imm[12], inst[7]=imm[11],
// inst[30:25]=imm[10:5], inst[11:8]=imm[4:1].
func immB(inst uint32) uint64 {
	hi := int64(int32(inst&0x80000000)) >> 19
	b11 := int64((inst & 0x80) << 4)
	b10_5 := int64((inst >> 20) & 0x7e0)
	b4_1 := int64((inst >> 7) & 0x1e)
	return uint64(hi | b11 | b10_5 | b4_1)
}

// immU decodes the 20-bit U-type immediate, already shifted into bits
// [31:12] with bits [11:0] zeroed, sign-extended to 64 bits.
func immU(inst uint32) uint64 {
	return uint64(int64(int32(inst & 0xfffff000)))
}

// immJ decodes the sign-extended 21-bit J-type immediate (jal target
// offset, bit 0 always zero): inst[31]=imm[20], inst[19:12]=imm[19:12],
// inst[20]=imm[11], inst[30:21]=imm[10:1].
func immJ(inst uint32) uint64 {
	hi := int64(int32(inst&0x80000000)) >> 11
	b19_12 := int64(inst & 0xff000)
	b11 := int64((inst >> 9) & 0x800)
	b10_1 := int64((inst >> 20) & 0x7fe)
	return uint64(hi | b19_12 | b11 | b10_1)
}
