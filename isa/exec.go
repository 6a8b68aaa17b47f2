package isa

import "github.com/rcornwell/mipsdiff/cp0"

func (in *Interpreter) setGPR(r uint8, v uint32) {
	if r != 0 {
		in.Arch.GPR[r] = v
	}
}

func (in *Interpreter) gpr(r uint8) uint32 { return in.Arch.GPR[r] }

// branch sets up a delay-slot-pending branch to target; the actual PC
// update happens on the following Step per the delay-slot contract.
func (in *Interpreter) branch(ist *InstState, taken bool, target uint32) {
	if taken {
		in.delay.pending = true
		in.delay.npc = target
	}
}

// Arithmetic / logical

func execAdd(in *Interpreter, ist *InstState, inst uint32) fault {
	a, b := int32(in.gpr(rs(inst))), int32(in.gpr(rt(inst)))
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum > 0) {
		return fault(cp0.ExcOv)
	}
	in.setGPR(rd(inst), uint32(sum))
	return noFault
}

func execAddu(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), in.gpr(rs(inst))+in.gpr(rt(inst)))
	return noFault
}

func execSub(in *Interpreter, ist *InstState, inst uint32) fault {
	a, b := int32(in.gpr(rs(inst))), int32(in.gpr(rt(inst)))
	diff := a - b
	if (a >= 0 && b < 0 && diff < 0) || (a < 0 && b > 0 && diff > 0) {
		return fault(cp0.ExcOv)
	}
	in.setGPR(rd(inst), uint32(diff))
	return noFault
}

func execSubu(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), in.gpr(rs(inst))-in.gpr(rt(inst)))
	return noFault
}

func execAnd(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), in.gpr(rs(inst))&in.gpr(rt(inst)))
	return noFault
}

func execOr(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), in.gpr(rs(inst))|in.gpr(rt(inst)))
	return noFault
}

func execXor(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), in.gpr(rs(inst))^in.gpr(rt(inst)))
	return noFault
}

func execNor(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), ^(in.gpr(rs(inst)) | in.gpr(rt(inst))))
	return noFault
}

func execSlt(in *Interpreter, ist *InstState, inst uint32) fault {
	v := uint32(0)
	if int32(in.gpr(rs(inst))) < int32(in.gpr(rt(inst))) {
		v = 1
	}
	in.setGPR(rd(inst), v)
	return noFault
}

func execSltu(in *Interpreter, ist *InstState, inst uint32) fault {
	v := uint32(0)
	if in.gpr(rs(inst)) < in.gpr(rt(inst)) {
		v = 1
	}
	in.setGPR(rd(inst), v)
	return noFault
}

func execSll(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), in.gpr(rt(inst))<<sa(inst))
	return noFault
}

func execSrl(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), in.gpr(rt(inst))>>sa(inst))
	return noFault
}

func execSra(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), uint32(int32(in.gpr(rt(inst)))>>sa(inst)))
	return noFault
}

func execSllv(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), in.gpr(rt(inst))<<(in.gpr(rs(inst))&0x1f))
	return noFault
}

func execSrlv(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), in.gpr(rt(inst))>>(in.gpr(rs(inst))&0x1f))
	return noFault
}

func execSrav(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), uint32(int32(in.gpr(rt(inst)))>>(in.gpr(rs(inst))&0x1f)))
	return noFault
}

func execMovz(in *Interpreter, ist *InstState, inst uint32) fault {
	if in.gpr(rt(inst)) == 0 {
		in.setGPR(rd(inst), in.gpr(rs(inst)))
	}
	return noFault
}

func execMovn(in *Interpreter, ist *InstState, inst uint32) fault {
	if in.gpr(rt(inst)) != 0 {
		in.setGPR(rd(inst), in.gpr(rs(inst)))
	}
	return noFault
}

func execClz(in *Interpreter, ist *InstState, inst uint32) fault {
	v := in.gpr(rs(inst))
	n := uint32(0)
	for n < 32 && v&(1<<(31-n)) == 0 {
		n++
	}
	in.setGPR(rd(inst), n)
	return noFault
}

// Immediate arithmetic

func execAddi(in *Interpreter, ist *InstState, inst uint32) fault {
	a, b := int32(in.gpr(rs(inst))), int32(int16(imm16(inst)))
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum > 0) {
		return fault(cp0.ExcOv)
	}
	in.setGPR(rt(inst), uint32(sum))
	return noFault
}

func execAddiu(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rt(inst), in.gpr(rs(inst))+signExt16(imm16(inst)))
	return noFault
}

func execSlti(in *Interpreter, ist *InstState, inst uint32) fault {
	v := uint32(0)
	if int32(in.gpr(rs(inst))) < int32(signExt16(imm16(inst))) {
		v = 1
	}
	in.setGPR(rt(inst), v)
	return noFault
}

func execSltiu(in *Interpreter, ist *InstState, inst uint32) fault {
	v := uint32(0)
	if in.gpr(rs(inst)) < signExt16(imm16(inst)) {
		v = 1
	}
	in.setGPR(rt(inst), v)
	return noFault
}

func execAndi(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rt(inst), in.gpr(rs(inst))&imm16(inst))
	return noFault
}

func execOri(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rt(inst), in.gpr(rs(inst))|imm16(inst))
	return noFault
}

func execXori(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rt(inst), in.gpr(rs(inst))^imm16(inst))
	return noFault
}

func execLui(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rt(inst), imm16(inst)<<16)
	return noFault
}

// Multiply / divide

func execMult(in *Interpreter, ist *InstState, inst uint32) fault {
	p := int64(int32(in.gpr(rs(inst)))) * int64(int32(in.gpr(rt(inst))))
	in.Arch.LO, in.Arch.HI = uint32(p), uint32(p>>32)
	ist.HiloValid = true
	return noFault
}

func execMultu(in *Interpreter, ist *InstState, inst uint32) fault {
	p := uint64(in.gpr(rs(inst))) * uint64(in.gpr(rt(inst)))
	in.Arch.LO, in.Arch.HI = uint32(p), uint32(p>>32)
	ist.HiloValid = true
	return noFault
}

func execMadd(in *Interpreter, ist *InstState, inst uint32) fault {
	p := int64(int32(in.gpr(rs(inst)))) * int64(int32(in.gpr(rt(inst))))
	acc := int64(uint64(in.Arch.HI)<<32 | uint64(in.Arch.LO))
	acc += p
	in.Arch.LO, in.Arch.HI = uint32(acc), uint32(acc>>32)
	ist.HiloValid = true
	return noFault
}

func execDiv(in *Interpreter, ist *InstState, inst uint32) fault {
	n, d := int32(in.gpr(rs(inst))), int32(in.gpr(rt(inst)))
	if d == 0 {
		// Undefined hi/lo per the architecture manual; REF must not fault
		// and must not be treated as diff-comparable.
		ist.HiloValid = false
		return noFault
	}
	in.Arch.LO, in.Arch.HI = uint32(n/d), uint32(n%d)
	ist.HiloValid = true
	return noFault
}

func execDivu(in *Interpreter, ist *InstState, inst uint32) fault {
	n, d := in.gpr(rs(inst)), in.gpr(rt(inst))
	if d == 0 {
		ist.HiloValid = false
		return noFault
	}
	in.Arch.LO, in.Arch.HI = n/d, n%d
	ist.HiloValid = true
	return noFault
}

func execMul(in *Interpreter, ist *InstState, inst uint32) fault {
	p := int64(int32(in.gpr(rs(inst)))) * int64(int32(in.gpr(rt(inst))))
	in.setGPR(rd(inst), uint32(p))
	ist.HiloValid = false
	return noFault
}

func execMfhi(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), in.Arch.HI)
	return noFault
}

func execMthi(in *Interpreter, ist *InstState, inst uint32) fault {
	in.Arch.HI = in.gpr(rs(inst))
	return noFault
}

func execMflo(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rd(inst), in.Arch.LO)
	return noFault
}

func execMtlo(in *Interpreter, ist *InstState, inst uint32) fault {
	in.Arch.LO = in.gpr(rs(inst))
	return noFault
}

// Loads / stores

func execLb(in *Interpreter, ist *InstState, inst uint32) fault {
	v, f := in.loadByte(in.gpr(rs(inst))+signExt16(imm16(inst)), true)
	if f != noFault {
		return f
	}
	in.setGPR(rt(inst), v)
	return noFault
}

func execLbu(in *Interpreter, ist *InstState, inst uint32) fault {
	v, f := in.loadByte(in.gpr(rs(inst))+signExt16(imm16(inst)), false)
	if f != noFault {
		return f
	}
	in.setGPR(rt(inst), v)
	return noFault
}

func execLh(in *Interpreter, ist *InstState, inst uint32) fault {
	v, f := in.loadHalf(in.gpr(rs(inst))+signExt16(imm16(inst)), true)
	if f != noFault {
		return f
	}
	in.setGPR(rt(inst), v)
	return noFault
}

func execLhu(in *Interpreter, ist *InstState, inst uint32) fault {
	v, f := in.loadHalf(in.gpr(rs(inst))+signExt16(imm16(inst)), false)
	if f != noFault {
		return f
	}
	in.setGPR(rt(inst), v)
	return noFault
}

func execLw(in *Interpreter, ist *InstState, inst uint32) fault {
	v, f := in.loadWord(in.gpr(rs(inst)) + signExt16(imm16(inst)))
	if f != noFault {
		return f
	}
	in.setGPR(rt(inst), v)
	return noFault
}

func execSb(in *Interpreter, ist *InstState, inst uint32) fault {
	return in.storeByte(in.gpr(rs(inst))+signExt16(imm16(inst)), in.gpr(rt(inst)))
}

func execSh(in *Interpreter, ist *InstState, inst uint32) fault {
	return in.storeHalf(in.gpr(rs(inst))+signExt16(imm16(inst)), in.gpr(rt(inst)))
}

func execSw(in *Interpreter, ist *InstState, inst uint32) fault {
	return in.storeWord(in.gpr(rs(inst))+signExt16(imm16(inst)), in.gpr(rt(inst)))
}

// lwl/lwr/swl/swr: unaligned-word helpers merging a whole word with the
// target register around the addr&3 byte boundary, big-endian-style.
func execLwl(in *Interpreter, ist *InstState, inst uint32) fault {
	addr := in.gpr(rs(inst)) + signExt16(imm16(inst))
	word, f := in.loadWord(addr &^ 3)
	if f != noFault {
		return f
	}
	shift := (addr & 3) * 8
	mask := uint32(0xffffffff) << shift
	in.setGPR(rt(inst), (in.gpr(rt(inst)) &^ mask)|(word<<shift))
	return noFault
}

func execLwr(in *Interpreter, ist *InstState, inst uint32) fault {
	addr := in.gpr(rs(inst)) + signExt16(imm16(inst))
	word, f := in.loadWord(addr &^ 3)
	if f != noFault {
		return f
	}
	shift := (3 - addr&3) * 8
	mask := uint32(0xffffffff) >> shift
	in.setGPR(rt(inst), (in.gpr(rt(inst)) &^ mask)|(word>>shift))
	return noFault
}

func execSwl(in *Interpreter, ist *InstState, inst uint32) fault {
	addr := in.gpr(rs(inst)) + signExt16(imm16(inst))
	base := addr &^ 3
	word, f := in.loadWord(base)
	if f != noFault {
		return f
	}
	shift := (addr & 3) * 8
	mask := uint32(0xffffffff) >> shift
	merged := (word &^ mask) | (in.gpr(rt(inst)) >> shift)
	return in.storeWord(base, merged)
}

func execSwr(in *Interpreter, ist *InstState, inst uint32) fault {
	addr := in.gpr(rs(inst)) + signExt16(imm16(inst))
	base := addr &^ 3
	word, f := in.loadWord(base)
	if f != noFault {
		return f
	}
	shift := (3 - addr&3) * 8
	mask := uint32(0xffffffff) << shift
	merged := (word &^ mask) | (in.gpr(rt(inst)) << shift)
	return in.storeWord(base, merged)
}

func execLl(in *Interpreter, ist *InstState, inst uint32) fault {
	v, f := in.loadWord(in.gpr(rs(inst)) + signExt16(imm16(inst)))
	if f != noFault {
		return f
	}
	in.Arch.LLBit = true
	in.setGPR(rt(inst), v)
	return noFault
}

func execSc(in *Interpreter, ist *InstState, inst uint32) fault {
	if !in.Arch.LLBit {
		in.setGPR(rt(inst), 0)
		return noFault
	}
	if f := in.storeWord(in.gpr(rs(inst))+signExt16(imm16(inst)), in.gpr(rt(inst))); f != noFault {
		return f
	}
	in.Arch.LLBit = false
	in.setGPR(rt(inst), 1)
	return noFault
}

// Control flow

func execJ(in *Interpreter, ist *InstState, inst uint32) fault {
	target := (ist.SNPC & 0xf000_0000) | (imm26(inst) << 2)
	in.branch(ist, true, target)
	return noFault
}

func execJal(in *Interpreter, ist *InstState, inst uint32) fault {
	target := (ist.SNPC & 0xf000_0000) | (imm26(inst) << 2)
	in.setGPR(31, ist.SNPC+4)
	in.branch(ist, true, target)
	ist.Flag = FlagCall
	ist.CallTo = target
	return noFault
}

func execJr(in *Interpreter, ist *InstState, inst uint32) fault {
	in.branch(ist, true, in.gpr(rs(inst)))
	if rs(inst) == 31 {
		ist.Flag = FlagReturn
		ist.RetTo = in.gpr(rs(inst))
	}
	return noFault
}

func execJalr(in *Interpreter, ist *InstState, inst uint32) fault {
	target := in.gpr(rs(inst))
	in.setGPR(rd(inst), ist.SNPC+4)
	in.branch(ist, true, target)
	ist.Flag = FlagCall
	ist.CallTo = target
	return noFault
}

func branchTarget(ist *InstState, inst uint32) uint32 {
	return ist.SNPC + (signExt16(imm16(inst)) << 2)
}

func execBeq(in *Interpreter, ist *InstState, inst uint32) fault {
	in.branch(ist, in.gpr(rs(inst)) == in.gpr(rt(inst)), branchTarget(ist, inst))
	return noFault
}

func execBne(in *Interpreter, ist *InstState, inst uint32) fault {
	in.branch(ist, in.gpr(rs(inst)) != in.gpr(rt(inst)), branchTarget(ist, inst))
	return noFault
}

func execBlez(in *Interpreter, ist *InstState, inst uint32) fault {
	in.branch(ist, int32(in.gpr(rs(inst))) <= 0, branchTarget(ist, inst))
	return noFault
}

func execBgtz(in *Interpreter, ist *InstState, inst uint32) fault {
	in.branch(ist, int32(in.gpr(rs(inst))) > 0, branchTarget(ist, inst))
	return noFault
}

func execBltz(in *Interpreter, ist *InstState, inst uint32) fault {
	in.branch(ist, int32(in.gpr(rs(inst))) < 0, branchTarget(ist, inst))
	return noFault
}

func execBgez(in *Interpreter, ist *InstState, inst uint32) fault {
	in.branch(ist, int32(in.gpr(rs(inst))) >= 0, branchTarget(ist, inst))
	return noFault
}

func execBltzal(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(31, ist.SNPC+4)
	in.branch(ist, int32(in.gpr(rs(inst))) < 0, branchTarget(ist, inst))
	return noFault
}

func execBgezal(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(31, ist.SNPC+4)
	in.branch(ist, int32(in.gpr(rs(inst))) >= 0, branchTarget(ist, inst))
	return noFault
}

// Traps / syscalls / CP0

func execSyscall(in *Interpreter, ist *InstState, inst uint32) fault {
	return fault(cp0.ExcSys)
}

func execBreak(in *Interpreter, ist *InstState, inst uint32) fault {
	return fault(cp0.ExcBp)
}

func execSdbbp(in *Interpreter, ist *InstState, inst uint32) fault {
	return fault(cp0.ExcBp)
}

func execTne(in *Interpreter, ist *InstState, inst uint32) fault {
	if in.gpr(rs(inst)) != in.gpr(rt(inst)) {
		return fault(cp0.ExcTr)
	}
	return noFault
}

func execReserved(in *Interpreter, ist *InstState, inst uint32) fault {
	return fault(cp0.ExcRI)
}

func execNop(in *Interpreter, ist *InstState, inst uint32) fault {
	return noFault
}

func execMfc0(in *Interpreter, ist *InstState, inst uint32) fault {
	in.setGPR(rt(inst), in.Arch.CP0.MFC0(rd(inst), sel(inst)))
	return noFault
}

func execMtc0(in *Interpreter, ist *InstState, inst uint32) fault {
	in.Arch.CP0.MTC0(rd(inst), sel(inst), in.gpr(rt(inst)))
	return noFault
}

func execTlbp(in *Interpreter, ist *InstState, inst uint32) fault {
	in.Arch.CP0.TLBP()
	return noFault
}

func execTlbr(in *Interpreter, ist *InstState, inst uint32) fault {
	in.Arch.CP0.TLBR()
	return noFault
}

func execTlbwi(in *Interpreter, ist *InstState, inst uint32) fault {
	in.Arch.CP0.TLBWI()
	return noFault
}

func execTlbwr(in *Interpreter, ist *InstState, inst uint32) fault {
	in.Arch.CP0.TLBWR()
	return noFault
}

func execEret(in *Interpreter, ist *InstState, inst uint32) fault {
	in.Arch.PC = in.Arch.CP0.Eret()
	in.Arch.LLBit = false
	in.delay.pending = false
	ist.DNPC = in.Arch.PC
	ist.eretTaken = true
	return noFault
}
