package isa

// Operand extractors, shared by every handler.
func rs(inst uint32) uint8     { return uint8((inst >> 21) & 0x1f) }
func rt(inst uint32) uint8     { return uint8((inst >> 16) & 0x1f) }
func rd(inst uint32) uint8     { return uint8((inst >> 11) & 0x1f) }
func sa(inst uint32) uint8     { return uint8((inst >> 6) & 0x1f) }
func funct(inst uint32) uint32 { return inst & 0x3f }
func imm16(inst uint32) uint32 { return inst & 0xffff }
func sel(inst uint32) uint8    { return uint8(inst & 0x7) }
func imm26(inst uint32) uint32 { return inst & 0x3ff_ffff }

func signExt16(v uint32) uint32 { return uint32(int32(int16(v))) }

// execFunc is one decode-table handler: given the current instruction word
// and the in-flight InstState, mutate architectural state and report a
// fault (noFault on success).
type execFunc func(in *Interpreter, ist *InstState, inst uint32) fault

// pattern is one (mask, match, handler) row. Patterns are scanned in
// declaration order; the first (inst & mask) == match wins. Don't-care
// bits are simply absent from mask.
type pattern struct {
	mask  uint32
	match uint32
	name  string
	exec  execFunc
}

const (
	opMask = 0xfc00_0000
	fnMask = 0xfc00_003f // opcode field + funct field, for SPECIAL/SPECIAL2
	rtMask = 0xfc1f_0000 // opcode + rt field, for REGIMM
	mfMask = 0xffe0_0000 // opcode+rs, for mfc0/mtc0 (rd/sel read separately)
	cpMask = 0xffe0_003f // opcode+rs+funct, for CP0 TLB ops and eret
)

func op(v uint32) uint32 { return v << 26 }
func fn(v uint32) uint32 { return v }

var decodeTable = buildTable()

func buildTable() []pattern {
	return []pattern{
		// SPECIAL (opcode 0)
		{fnMask, op(0) | fn(0x20), "add", execAdd},
		{fnMask, op(0) | fn(0x21), "addu", execAddu},
		{fnMask, op(0) | fn(0x22), "sub", execSub},
		{fnMask, op(0) | fn(0x23), "subu", execSubu},
		{fnMask, op(0) | fn(0x24), "and", execAnd},
		{fnMask, op(0) | fn(0x25), "or", execOr},
		{fnMask, op(0) | fn(0x26), "xor", execXor},
		{fnMask, op(0) | fn(0x27), "nor", execNor},
		{fnMask, op(0) | fn(0x2a), "slt", execSlt},
		{fnMask, op(0) | fn(0x2b), "sltu", execSltu},
		{fnMask, op(0) | fn(0x00), "sll", execSll},
		{fnMask, op(0) | fn(0x02), "srl", execSrl},
		{fnMask, op(0) | fn(0x03), "sra", execSra},
		{fnMask, op(0) | fn(0x04), "sllv", execSllv},
		{fnMask, op(0) | fn(0x06), "srlv", execSrlv},
		{fnMask, op(0) | fn(0x07), "srav", execSrav},
		{fnMask, op(0) | fn(0x08), "jr", execJr},
		{fnMask, op(0) | fn(0x09), "jalr", execJalr},
		{fnMask, op(0) | fn(0x0c), "syscall", execSyscall},
		{fnMask, op(0) | fn(0x0d), "break", execBreak},
		{fnMask, op(0) | fn(0x0f), "sync", execNop},
		{fnMask, op(0) | fn(0x10), "mfhi", execMfhi},
		{fnMask, op(0) | fn(0x11), "mthi", execMthi},
		{fnMask, op(0) | fn(0x12), "mflo", execMflo},
		{fnMask, op(0) | fn(0x13), "mtlo", execMtlo},
		{fnMask, op(0) | fn(0x18), "mult", execMult},
		{fnMask, op(0) | fn(0x19), "multu", execMultu},
		{fnMask, op(0) | fn(0x1a), "div", execDiv},
		{fnMask, op(0) | fn(0x1b), "divu", execDivu},
		{fnMask, op(0) | fn(0x0a), "movz", execMovz},
		{fnMask, op(0) | fn(0x0b), "movn", execMovn},
		{fnMask, op(0) | fn(0x36), "tne", execTne},

		// SPECIAL2 (opcode 0x1c): clz, madd, mul, sdbbp
		{fnMask, op(0x1c) | fn(0x20), "clz", execClz},
		{fnMask, op(0x1c) | fn(0x00), "madd", execMadd},
		{fnMask, op(0x1c) | fn(0x02), "mul", execMul},
		{fnMask, op(0x1c) | fn(0x3f), "sdbbp", execSdbbp},

		// REGIMM (opcode 1): bltz/bgez/bltzal/bgezal keyed on rt field
		{rtMask, op(1) | (0x00 << 16), "bltz", execBltz},
		{rtMask, op(1) | (0x01 << 16), "bgez", execBgez},
		{rtMask, op(1) | (0x10 << 16), "bltzal", execBltzal},
		{rtMask, op(1) | (0x11 << 16), "bgezal", execBgezal},

		// Major opcodes
		{opMask, op(0x02), "j", execJ},
		{opMask, op(0x03), "jal", execJal},
		{opMask, op(0x04), "beq", execBeq},
		{opMask, op(0x05), "bne", execBne},
		{opMask, op(0x06), "blez", execBlez},
		{opMask, op(0x07), "bgtz", execBgtz},
		{opMask, op(0x08), "addi", execAddi},
		{opMask, op(0x09), "addiu", execAddiu},
		{opMask, op(0x0a), "slti", execSlti},
		{opMask, op(0x0b), "sltiu", execSltiu},
		{opMask, op(0x0c), "andi", execAndi},
		{opMask, op(0x0d), "ori", execOri},
		{opMask, op(0x0e), "xori", execXori},
		{opMask, op(0x0f), "lui", execLui},
		{opMask, op(0x20), "lb", execLb},
		{opMask, op(0x21), "lh", execLh},
		{opMask, op(0x22), "lwl", execLwl},
		{opMask, op(0x23), "lw", execLw},
		{opMask, op(0x24), "lbu", execLbu},
		{opMask, op(0x25), "lhu", execLhu},
		{opMask, op(0x26), "lwr", execLwr},
		{opMask, op(0x28), "sb", execSb},
		{opMask, op(0x29), "sh", execSh},
		{opMask, op(0x2a), "swl", execSwl},
		{opMask, op(0x2b), "sw", execSw},
		{opMask, op(0x2e), "swr", execSwr},
		{opMask, op(0x2f), "cache", execNop},
		{opMask, op(0x30), "ll", execLl},
		{opMask, op(0x33), "pref", execNop},
		{opMask, op(0x38), "sc", execSc},

		// COP0 (opcode 0x10)
		{mfMask, op(0x10) | (0x00 << 21), "mfc0", execMfc0},
		{mfMask, op(0x10) | (0x04 << 21), "mtc0", execMtc0},
		{cpMask, op(0x10) | (0x10<<21 | 0x01), "tlbr", execTlbr},
		{cpMask, op(0x10) | (0x10<<21 | 0x02), "tlbwi", execTlbwi},
		{cpMask, op(0x10) | (0x10<<21 | 0x06), "tlbwr", execTlbwr},
		{cpMask, op(0x10) | (0x10<<21 | 0x08), "tlbp", execTlbp},
		{cpMask, op(0x10) | (0x10<<21 | 0x18), "eret", execEret},
	}
}

// decode scans the table in order and returns the first matching handler;
// an instruction no row matches falls through to execReserved (RI).
func decode(inst uint32) (string, execFunc) {
	for _, p := range decodeTable {
		if inst&p.mask == p.match {
			return p.name, p.exec
		}
	}
	return "ri", execReserved
}
