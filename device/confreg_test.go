package device

import (
	"testing"

	"github.com/rcornwell/mipsdiff/bus"
)

func TestConfregSwitchReadback(t *testing.T) {
	c := NewConfreg()
	c.SetSwitch(7)
	v, err := c.Read(ConfregSwitch, bus.BusInfo{Size: 4})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 7 {
		t.Errorf("got switch %d, want 7", v)
	}
}

func TestConfregLEDWriteIgnoresSwitch(t *testing.T) {
	c := NewConfreg()
	if err := c.Write(ConfregSwitch, bus.BusInfo{Size: 4, WriteEnable: 0xf}, 99); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, _ := c.Read(ConfregSwitch, bus.BusInfo{Size: 4})
	if v != 0 {
		t.Errorf("guest write to switch register should be ignored, got %d", v)
	}

	if err := c.Write(ConfregLED, bus.BusInfo{Size: 1, WriteEnable: 0x1}, 0xab); err != nil {
		t.Fatalf("write led: %v", err)
	}
	led, _ := c.Read(ConfregLED, bus.BusInfo{Size: 4})
	if led != 0xab {
		t.Errorf("got led %#x, want %#x", led, 0xab)
	}
}

func TestConfregTick(t *testing.T) {
	c := NewConfreg()
	c.Tick()
	c.Tick()
	v, _ := c.Read(ConfregNumTick, bus.BusInfo{Size: 4})
	if v != 2 {
		t.Errorf("got %d ticks, want 2", v)
	}
}
