package dualsoc

import (
	"testing"

	"github.com/rcornwell/mipsdiff/bus"
	"github.com/rcornwell/mipsdiff/device"
)

func TestBuildBasicHasNoUart(t *testing.T) {
	s, err := Build(VariantBasic, 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if s.Uart != nil || s.Confreg != nil {
		t.Errorf("basic variant should have no confreg/uart")
	}
}

func TestBuildBootHasDevices(t *testing.T) {
	s, err := Build(VariantBoot, 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if s.Uart == nil || s.Confreg == nil {
		t.Fatalf("boot variant should have confreg+uart")
	}
}

func writeByte(t *testing.T, u *device.Uart8250, c byte) {
	t.Helper()
	if err := u.Write(0, bus.BusInfo{Size: 1, WriteEnable: 0x1}, uint32(c)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestUARTLockstepComparison(t *testing.T) {
	d, err := New(VariantBoot, 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, c := range []byte("ok\n") {
		writeByte(t, d.Dut.Uart, c)
		writeByte(t, d.Ref.Uart, c)
	}
	_, _, ok := d.CompareUART()
	if !ok {
		t.Errorf("expected matching UART output to compare equal")
	}
}

func TestUARTMismatchDetected(t *testing.T) {
	d, err := New(VariantBoot, 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	writeByte(t, d.Dut.Uart, 'a')
	writeByte(t, d.Ref.Uart, 'b')

	_, _, ok := d.CompareUART()
	if ok {
		t.Errorf("expected mismatched UART output to compare unequal")
	}
}

func TestSetSwitchBroadcasts(t *testing.T) {
	d, err := New(VariantBoot, 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	d.SetSwitch(5)
	v, _ := d.Dut.Confreg.Read(device.ConfregSwitch, bus.BusInfo{Size: 4})
	if v != 5 {
		t.Errorf("got dut switch %d, want 5", v)
	}
	v, _ = d.Ref.Confreg.Read(device.ConfregSwitch, bus.BusInfo{Size: 4})
	if v != 5 {
		t.Errorf("got ref switch %d, want 5", v)
	}
}
