package cp0

// TLBP searches the TLB for an entry matching EntryHi's VPN2/ASID and sets
// Index accordingly (Index.P set, Index cleared, on no match).
func (c *CP0) TLBP() {
	const asidMask = 0xff
	const vpn2Mask = 0xffffe000

	vpn2 := c.EntryHi & vpn2Mask
	asid := c.EntryHi & asidMask

	for i, e := range c.TLB {
		mask := ^e.PageMask & vpn2Mask
		if (e.EntryHi&mask) != (vpn2&mask) {
			continue
		}
		global := e.EntryLo0&0x1 != 0 && e.EntryLo1&0x1 != 0
		if !global && (e.EntryHi&asidMask) != asid {
			continue
		}
		c.Index = uint32(i)
		return
	}
	c.Index = 0x8000_0000
}

// TLBR copies the TLB entry named by Index into EntryHi/EntryLo0/EntryLo1/PageMask.
func (c *CP0) TLBR() {
	e := c.TLB[c.Index%TLBNR]
	c.EntryHi = e.EntryHi
	c.EntryLo0 = e.EntryLo0
	c.EntryLo1 = e.EntryLo1
	c.PageMask = e.PageMask
}

// TLBWI writes the current EntryHi/EntryLo0/EntryLo1/PageMask into the TLB
// row named by Index.
func (c *CP0) TLBWI() {
	c.writeTLB(c.Index % TLBNR)
}

// TLBWR writes the current EntryHi/EntryLo0/EntryLo1/PageMask into the TLB
// row named by Random.
func (c *CP0) TLBWR() {
	c.writeTLB(c.Random % TLBNR)
}

func (c *CP0) writeTLB(row uint32) {
	c.TLB[row] = TLBEntry{
		PageMask: c.PageMask,
		EntryHi:  c.EntryHi,
		EntryLo0: c.EntryLo0,
		EntryLo1: c.EntryLo1,
	}
}
