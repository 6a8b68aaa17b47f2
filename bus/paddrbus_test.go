package bus

import "testing"

func TestAddDeviceRejectsOverlap(t *testing.T) {
	b := NewPaddrBus()
	r1, _ := NewAddrRange(0x0000_0000, 0x1000)
	r2, _ := NewAddrRange(0x0000_0800, 0x1000)

	if err := b.AddDevice(r1, NewRAM(0x1000)); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := b.AddDevice(r2, NewRAM(0x1000)); err == nil {
		t.Fatalf("expected overlap to be rejected")
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	b := NewPaddrBus()
	r, _ := NewAddrRange(0x0000_0000, 0x1000)
	if err := b.AddDevice(r, NewRAM(0x1000)); err != nil {
		t.Fatalf("add device: %v", err)
	}

	if err := b.Write(0x10, BusInfo{Size: 4, WriteEnable: 0xf}, 0xdeadbeef); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := b.Read(0x10, BusInfo{Size: 4})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != 0xdeadbeef {
		t.Errorf("got %#x, want %#x", got, 0xdeadbeef)
	}
}

func TestOutOfBound(t *testing.T) {
	b := NewPaddrBus()
	r, _ := NewAddrRange(0x0000_0000, 0x1000)
	if err := b.AddDevice(r, NewRAM(0x1000)); err != nil {
		t.Fatalf("add device: %v", err)
	}

	if _, err := b.Read(0x2000, BusInfo{Size: 4}); err == nil {
		t.Errorf("expected out-of-bound read to fail")
	}

	// Access spanning two device ranges must be rejected, not split.
	r2, _ := NewAddrRange(0x1000, 0x1000)
	if err := b.AddDevice(r2, NewRAM(0x1000)); err != nil {
		t.Fatalf("add second device: %v", err)
	}
	if _, err := b.Read(0x0ffe, BusInfo{Size: 4}); err == nil {
		t.Errorf("expected spanning access to be rejected")
	}
}
